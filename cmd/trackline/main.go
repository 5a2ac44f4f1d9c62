package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/operato/trackline/internal/cli"
	"github.com/operato/trackline/internal/store/jsonstore"
	"github.com/operato/trackline/internal/store/prefs"
	"github.com/operato/trackline/internal/timeline"
	"github.com/operato/trackline/internal/ui"
)

func main() {
	// Stored preferences seed the flag defaults; flags win when given.
	p, err := prefs.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "preferences:", err)
	}
	defTheme := p.Theme
	if defTheme == "" {
		defTheme = "classic"
	}
	defScale := p.Scale
	if defScale == "" {
		defScale = string(timeline.ScaleDays)
	}
	defZoom := p.Zoom
	if defZoom == 0 {
		defZoom = 1.0
	}

	// Root flags (apply to every subcommand)
	file := flag.String("f", jsonstore.DefaultFileName, "timeline document path")
	scale := flag.String("scale", defScale, "axis scale policy: days or weeks")
	zoom := flag.Float64("zoom", defZoom, "width scaling for rendered output")
	theme := flag.String("theme", defTheme, "terminal theme: classic, neon or mono")
	style := flag.String("style", "", "YAML style file for SVG export")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	savePrefs := flag.Bool("save-prefs", false, "persist theme, scale and zoom as defaults")
	flag.Parse()

	ui.SetColorForcing(false, *noColor)
	ui.SetTheme(*theme)

	sc, ok := timeline.ParseScale(*scale)
	if !ok {
		ui.Fail("unknown scale: " + *scale)
		os.Exit(2)
	}
	if *zoom <= 0 {
		ui.Fail(fmt.Sprintf("zoom must be positive: %g", *zoom))
		os.Exit(2)
	}

	if *savePrefs {
		if err := prefs.Save(prefs.Preferences{Theme: *theme, Scale: *scale, Zoom: *zoom}); err != nil {
			ui.Fail("save preferences: " + err.Error())
			os.Exit(1)
		}
	}

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		File:  *file,
		Scale: sc,
		Zoom:  *zoom,
		Style: *style,
	})
	os.Exit(code)
}

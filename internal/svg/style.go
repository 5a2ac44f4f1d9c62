package svg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Style controls the look of the exported diagram. The structure maps
// directly to a YAML style file; anything left unset keeps its default.
type Style struct {
	Font struct {
		Family string `yaml:"family"`
		Size   int    `yaml:"size"`
	} `yaml:"font"`
	Colors struct {
		Background string `yaml:"background"`
		Axis       string `yaml:"axis"`
		Red        string `yaml:"red"`
		Blue       string `yaml:"blue"`
		Text       string `yaml:"text"`
		Muted      string `yaml:"muted"`
	} `yaml:"colors"`
	Layout struct {
		Width        int `yaml:"width"`
		Height       int `yaml:"height"`
		MarginTop    int `yaml:"margin_top"`
		MarginBottom int `yaml:"margin_bottom"`
		MarginLeft   int `yaml:"margin_left"`
		MarginRight  int `yaml:"margin_right"`
		FlagWidth    int `yaml:"flag_width"`
		FlagHeight   int `yaml:"flag_height"`
		BadgeRadius  int `yaml:"badge_radius"`
	} `yaml:"layout"`
}

// DefaultStyle returns the compiled-in look: a 1200x640 canvas, red flags
// over blue on a light background.
func DefaultStyle() Style {
	var s Style
	s.Font.Family = "Arial, sans-serif"
	s.Font.Size = 12
	s.Colors.Background = "#ffffff"
	s.Colors.Axis = "#333333"
	s.Colors.Red = "#c0392b"
	s.Colors.Blue = "#2d6cdf"
	s.Colors.Text = "#333333"
	s.Colors.Muted = "#888888"
	s.Layout.Width = 1200
	s.Layout.Height = 640
	s.Layout.MarginTop = 60
	s.Layout.MarginBottom = 40
	s.Layout.MarginLeft = 60
	s.Layout.MarginRight = 60
	s.Layout.FlagWidth = 14
	s.Layout.FlagHeight = 9
	s.Layout.BadgeRadius = 9
	return s
}

// LoadStyle loads a YAML style file over the defaults, or just the defaults
// when no path is given.
func LoadStyle(path string) (Style, error) {
	s := DefaultStyle()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("error reading style file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Style{}, fmt.Errorf("error parsing style file: %w", err)
	}
	return s, nil
}

func (s Style) teamColor(team string) string {
	if team == "red" {
		return s.Colors.Red
	}
	return s.Colors.Blue
}

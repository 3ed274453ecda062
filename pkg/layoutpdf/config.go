package layoutpdf

import (
	"github.com/sirupsen/logrus"
)

// Config holds user options for rendering the layout overlay
type Config struct {
	Text      bool               // Draw the recognized words in their boxes
	Labels    bool               // Print layout attributes next to blocks and paragraphs
	StartPage int                // Render from this page number on
	DPI       int                // Resolution of pages without scan_res (0 = hocr.DefaultDPI)
	LineWidth float64            // Stroke width of boxes in points
	Logger    logrus.FieldLogger // Warnings go here (nil = standard logger)
	Font      FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Text:      true,
		Labels:    true,
		StartPage: 1,
		LineWidth: 0.5,
		Font:      DefaultFont,
	}
}

// FontConfig contains font settings for words and labels
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	LabelSize   float64 // Font size of layout labels
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont uses Helvetica, one of the PDF core fonts.
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	LabelSize:   6,
	AscentRatio: 0.718,
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger().WithField("package", "layoutpdf")
	}
	return c.Logger
}

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gardar/hocrlayout/pkg/layout"
	"github.com/gardar/hocrlayout/pkg/layoutpdf"
)

// fileConfig is the YAML configuration file. Missing fields keep their
// defaults.
//
//	dpi: 300
//	log_level: debug
//	layout:
//	  enable_line_margin: true
//	  line_distance_ratio: 1.3
//	render:
//	  text: false
type fileConfig struct {
	DPI      int           `yaml:"dpi"`
	LogLevel string        `yaml:"log_level"`
	Layout   layout.Config `yaml:"layout"`
	Render   renderConfig  `yaml:"render"`
}

type renderConfig struct {
	Text      bool    `yaml:"text"`
	Labels    bool    `yaml:"labels"`
	LineWidth float64 `yaml:"line_width"`
}

func defaultFileConfig() fileConfig {
	pdf := layoutpdf.DefaultConfig()
	return fileConfig{
		Layout: layout.DefaultConfig(),
		Render: renderConfig{
			Text:      pdf.Text,
			Labels:    pdf.Labels,
			LineWidth: pdf.LineWidth,
		},
	}
}

// loadConfig reads a YAML file over the defaults. An empty path returns the
// defaults.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "failed to read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}
	if cfg.DPI < 0 {
		return cfg, errors.Errorf("invalid dpi %d", cfg.DPI)
	}
	return cfg, nil
}

// pdfConfig returns the overlay options of the configuration.
func (c fileConfig) pdfConfig(logger logrus.FieldLogger) layoutpdf.Config {
	pdf := layoutpdf.DefaultConfig()
	pdf.Text = c.Render.Text
	pdf.Labels = c.Render.Labels
	if c.Render.LineWidth > 0 {
		pdf.LineWidth = c.Render.LineWidth
	}
	pdf.DPI = c.DPI
	pdf.Logger = logger
	return pdf
}

// setLoggerLevel sets the level of the standard logger, falling back to info
// for unknown names.
func setLoggerLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// hocrlayout is a command-line tool that segments OCR output into paragraphs
// and classifies their layout.
//
// Input is an hOCR file or a saved Google Document AI JSON response. The
// analysis replaces the paragraphs of every content area with the ones it
// detects and writes their indentation, text orientation, font size and line
// height as hOCR title properties.
//
// Usage:
//
//	hocrlayout [global options] analyze --hocr page.hocr [options]
//	hocrlayout [global options] analyze --docai response.json [options]
//	hocrlayout [global options] text --hocr page.hocr [--output page.txt]
//	hocrlayout [global options] render --hocr analysed.hocr --output debug.pdf
//
// Global options:
//
//	--config string     Path to a YAML configuration file
//	--log-level string  Log level (trace, debug, info, warn, error)
//
// Example:
//
//	hocrlayout analyze --hocr scan.hocr --output scan.layout.hocr --text scan.txt --debug-pdf scan.pdf --image-dir scans/
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("hocrlayout failed")
	}
}

// newCommand builds the command tree.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "hocrlayout",
		Usage: "Detect paragraphs and their layout in OCR output",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (trace, debug, info, warn, error)",
				Value: "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "Split text areas into paragraphs and classify their layout",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hocr", Usage: "Input hOCR file"},
					&cli.StringFlag{Name: "docai", Usage: "Input Document AI JSON response"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output hOCR file (default: stdout)"},
					&cli.StringFlag{Name: "text", Usage: "Also write the paragraph text to this file"},
					&cli.StringFlag{Name: "debug-pdf", Usage: "Also render the layout overlay to this PDF"},
					&cli.StringFlag{Name: "image-dir", Usage: "Directory holding the page images named in the hOCR"},
					&cli.IntFlag{Name: "dpi", Usage: "Scan resolution, overrides scan_res and the config"},
					&cli.BoolFlag{Name: "line-margin", Usage: "Enable the line-margin paragraph strategy"},
				},
				Action: analyzeAction,
			},
			{
				Name:  "text",
				Usage: "Export plain text with paragraphs separated by blank lines",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hocr", Usage: "Input hOCR file", Required: true},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output text file (default: stdout)"},
					&cli.BoolFlag{Name: "raw", Usage: "Keep the paragraphs of the input instead of analysing"},
					&cli.IntFlag{Name: "dpi", Usage: "Scan resolution, overrides scan_res and the config"},
				},
				Action: textAction,
			},
			{
				Name:  "render",
				Usage: "Render the layout of an analysed hOCR file as a debug PDF",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hocr", Usage: "Input hOCR file", Required: true},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output PDF file", Required: true},
					&cli.StringFlag{Name: "image-dir", Usage: "Directory holding the page images named in the hOCR"},
					&cli.StringFlag{Name: "pdf", Usage: "Draw over the pages of this PDF instead of images"},
					&cli.IntFlag{Name: "start-page", Usage: "First page to render (1-based)", Value: 1},
				},
				Action: renderAction,
			},
		},
	}
}

// setup loads the configuration and returns it with the logger of this run.
func setup(cmd *cli.Command) (fileConfig, logrus.FieldLogger, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return cfg, nil, err
	}
	level := cmd.String("log-level")
	if !cmd.IsSet("log-level") && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	setLoggerLevel(level)

	if cmd.IsSet("dpi") {
		cfg.DPI = cmd.Int("dpi")
	}
	if cmd.Bool("line-margin") {
		cfg.Layout.EnableLineMargin = true
	}
	log := logrus.StandardLogger().WithFields(logrus.Fields{
		"run":     uuid.NewString(),
		"command": cmd.Name,
	})
	return cfg, log, nil
}

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/gardar/hocrlayout/pkg/gdocai"
	"github.com/gardar/hocrlayout/pkg/hocr"
	"github.com/gardar/hocrlayout/pkg/layout"
	"github.com/gardar/hocrlayout/pkg/layoutpdf"
)

func analyzeAction(_ context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	hocrPath, docaiPath := cmd.String("hocr"), cmd.String("docai")
	if (hocrPath == "") == (docaiPath == "") {
		return errors.New("exactly one of --hocr and --docai is required")
	}

	var doc *hocr.HOCR
	var images [][]byte
	if hocrPath != "" {
		doc, err = readHOCR(hocrPath)
	} else {
		doc, images, err = readDocumentAI(docaiPath, log)
	}
	if err != nil {
		return err
	}

	analyzeDocument(doc, cfg, log)

	html, err := hocr.GenerateHOCRDocument(doc)
	if err != nil {
		return errors.Wrap(err, "failed to generate hOCR")
	}
	if err := writeOutput(cmd.String("output"), []byte(html)); err != nil {
		return err
	}

	if path := cmd.String("text"); path != "" {
		if err := writeOutput(path, []byte(hocr.ExtractHOCRText(doc))); err != nil {
			return err
		}
		log.WithField("path", path).Info("Wrote text")
	}

	if path := cmd.String("debug-pdf"); path != "" {
		if dir := cmd.String("image-dir"); dir != "" {
			images = pageImages(doc, dir, log)
		}
		pdf, err := layoutpdf.Render(doc, images, cfg.pdfConfig(log))
		if err != nil {
			return errors.Wrap(err, "failed to render debug PDF")
		}
		if err := writeOutput(path, pdf); err != nil {
			return err
		}
		log.WithField("path", path).Info("Wrote debug PDF")
	}
	return nil
}

func textAction(_ context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	doc, err := readHOCR(cmd.String("hocr"))
	if err != nil {
		return err
	}
	if !cmd.Bool("raw") {
		analyzeDocument(doc, cfg, log)
	}
	return writeOutput(cmd.String("output"), []byte(hocr.ExtractHOCRText(doc)))
}

func renderAction(_ context.Context, cmd *cli.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	doc, err := readHOCR(cmd.String("hocr"))
	if err != nil {
		return err
	}
	pdfCfg := cfg.pdfConfig(log)
	pdfCfg.StartPage = cmd.Int("start-page")

	var pdf []byte
	if src := cmd.String("pdf"); src != "" {
		data, err := os.ReadFile(src)
		if err != nil {
			return errors.Wrap(err, "failed to read PDF")
		}
		pdf, err = layoutpdf.RenderOverPDF(doc, data, pdfCfg)
		if err != nil {
			return errors.Wrap(err, "failed to render over PDF")
		}
	} else {
		var images [][]byte
		if dir := cmd.String("image-dir"); dir != "" {
			images = pageImages(doc, dir, log)
		}
		pdf, err = layoutpdf.Render(doc, images, pdfCfg)
		if err != nil {
			return errors.Wrap(err, "failed to render PDF")
		}
	}
	if err := writeOutput(cmd.String("output"), pdf); err != nil {
		return err
	}
	log.WithField("pages", len(doc.Pages)).Info("Rendered layout")
	return nil
}

// analyzeDocument runs the layout analysis on every page of doc in place.
func analyzeDocument(doc *hocr.HOCR, cfg fileConfig, log logrus.FieldLogger) {
	analyzer := layout.New(cfg.Layout, layout.NewLogReporter(log))
	for i, page := range doc.Pages {
		conv := hocr.ToRegionPage(page, cfg.DPI)
		analyzer.AnalyzePage(conv.Page, conv.DPI)
		doc.Pages[i] = conv.HOCRPage()
		log.WithFields(logrus.Fields{
			"page": page.ID,
			"dpi":  conv.DPI,
		}).Info("Analysed page")
	}
}

func readHOCR(path string) (*hocr.HOCR, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read hOCR")
	}
	doc, err := hocr.ParseHOCR(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &doc, nil
}

// readDocumentAI converts a saved Document AI response. The page images it
// embeds are returned alongside, nil when there are none.
func readDocumentAI(path string, log logrus.FieldLogger) (*hocr.HOCR, [][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to read Document AI response")
	}
	proto, err := gdocai.LoadDocument(data)
	if err != nil {
		return nil, nil, err
	}
	doc, err := gdocai.CreateHOCRStruct(proto)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to convert Document AI response")
	}
	images, err := gdocai.PageImages(proto)
	if err != nil {
		log.WithError(err).Debug("No page images in response")
	}
	return doc, images, nil
}

// pageImages loads the image named by each page from dir. Missing images
// leave a nil entry and are logged.
func pageImages(doc *hocr.HOCR, dir string, log logrus.FieldLogger) [][]byte {
	images := make([][]byte, len(doc.Pages))
	for i, page := range doc.Pages {
		if page.ImageName == "" {
			continue
		}
		path := filepath.Join(dir, filepath.Base(page.ImageName))
		data, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).WithField("page", page.ID).Warn("Page image not found")
			continue
		}
		images[i] = data
	}
	return images
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "failed to create output file")
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}

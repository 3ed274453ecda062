package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/gardar/hocrlayout/pkg/hocr"
)

const sampleHOCR = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN"
    "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
 <head>
  <title>sample</title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name="ocr-system" content="tesseract 5.3.0"/>
  <meta name="ocr-capabilities" content="ocr_page ocr_carea ocr_par ocr_line ocrx_word"/>
 </head>
 <body>
  <div class="ocr_page" id="page_1" title='image "scan.png"; bbox 0 0 2000 3000; ppageno 0; scan_res 300 300'>
   <div class="ocr_carea" id="block_1_1" title="bbox 100 100 1000 330">
    <p class="ocr_par" id="par_1_1" lang="eng" title="bbox 100 100 1000 330">
     <span class="ocr_line" id="line_1_1" title="bbox 150 100 1000 130; baseline 0 -5; x_size 40; x_fsize 10">
      <span class="ocrx_word" id="word_1_1" title="bbox 150 100 500 130; x_wconf 95">Lorem</span>
      <span class="ocrx_word" id="word_1_2" title="bbox 520 100 1000 130; x_wconf 93">ipsum</span>
     </span>
     <span class="ocr_line" id="line_1_2" title="bbox 100 140 1000 170; baseline 0 -5; x_size 40">
      <span class="ocrx_word" id="word_1_3" title="bbox 100 140 1000 170; x_wconf 90">dolor</span>
     </span>
     <span class="ocr_line" id="line_1_3" title="bbox 100 180 600 210; baseline 0 -5; x_size 40">
      <span class="ocrx_word" id="word_1_4" title="bbox 100 180 600 210; x_wconf 90">sit.</span>
     </span>
     <span class="ocr_line" id="line_1_4" title="bbox 150 220 1000 250; baseline 0 -5; x_size 40">
      <span class="ocrx_word" id="word_1_5" title="bbox 150 220 1000 250; x_wconf 90">Amet</span>
     </span>
     <span class="ocr_line" id="line_1_5" title="bbox 100 260 1000 290; baseline 0 -5; x_size 40">
      <span class="ocrx_word" id="word_1_6" title="bbox 100 260 1000 290; x_wconf 90">consectetur</span>
     </span>
     <span class="ocr_line" id="line_1_6" title="bbox 100 300 500 330; baseline 0 -5; x_size 40">
      <span class="ocrx_word" id="word_1_7" title="bbox 100 300 500 330; x_wconf 90">elit.</span>
     </span>
    </p>
   </div>
   <table class="ocr_table" id="table_1_1" title="bbox 100 400 1000 500">
    <tr><td><span class="ocr_line" id="line_1_7" title="bbox 110 410 300 440">
     <span class="ocrx_word" id="word_1_8" title="bbox 110 410 300 440">cell</span>
    </span></td></tr>
   </table>
  </div>
 </body>
</html>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	return newCommand().Run(context.Background(), append([]string{"hocrlayout", "--log-level", "error"}, args...))
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultFileConfig(), cfg)

	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "dpi: 200\nlog_level: debug\nlayout:\n  enable_line_margin: true\n  line_distance_ratio: 1.4\nrender:\n  text: false\n")
	cfg, err = loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.DPI)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Layout.EnableLineMargin)
	assert.Equal(t, 1.4, cfg.Layout.LineDistanceRatio)
	assert.Equal(t, 20, cfg.Layout.ThresholdDivisor)
	assert.False(t, cfg.Render.Text)
	assert.True(t, cfg.Render.Labels)

	pdf := cfg.pdfConfig(nil)
	assert.False(t, pdf.Text)
	assert.Equal(t, 200, pdf.DPI)

	_, err = loadConfig(writeFile(t, dir, "bad.yml", "dpi: [1"))
	require.Error(t, err)
	_, err = loadConfig(writeFile(t, dir, "neg.yml", "dpi: -3"))
	require.Error(t, err)
	_, err = loadConfig(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "page.hocr", sampleHOCR)
	out := filepath.Join(dir, "out.hocr")
	txt := filepath.Join(dir, "out.txt")
	pdf := filepath.Join(dir, "out.pdf")

	require.NoError(t, run(t, "analyze", "--hocr", in, "--output", out, "--text", txt, "--debug-pdf", pdf, "--image-dir", dir))

	text, err := os.ReadFile(txt)
	require.NoError(t, err)
	assert.Equal(t, "Lorem ipsum\ndolor\nsit.\n\nAmet\nconsectetur\nelit.\n\ncell\n", string(text))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	doc, err := hocr.ParseHOCR(data)
	require.NoError(t, err)
	pars := doc.Pages[0].Areas[0].Paragraphs
	require.Len(t, pars, 2)
	assert.Equal(t, "indent", pars[0].Metadata[hocr.PropIndentation])

	rendered, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(rendered), "%PDF"))

	// The analysed output renders on its own.
	pdf2 := filepath.Join(dir, "again.pdf")
	require.NoError(t, run(t, "render", "--hocr", out, "--output", pdf2))
	_, err = os.Stat(pdf2)
	require.NoError(t, err)
}

func TestAnalyze_InputFlags(t *testing.T) {
	require.Error(t, run(t, "analyze"))

	dir := t.TempDir()
	in := writeFile(t, dir, "page.hocr", sampleHOCR)
	require.Error(t, run(t, "analyze", "--hocr", in, "--docai", in))
	require.Error(t, run(t, "analyze", "--hocr", filepath.Join(dir, "missing.hocr")))
}

func TestAnalyze_DocumentAI(t *testing.T) {
	text := "one two\n"
	anchor := func(start, end int64) *documentaipb.Document_TextAnchor {
		return &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{{StartIndex: start, EndIndex: end}},
		}
	}
	poly := func(x1, y1, x2, y2 float32) *documentaipb.BoundingPoly {
		return &documentaipb.BoundingPoly{NormalizedVertices: []*documentaipb.NormalizedVertex{
			{X: x1, Y: y1}, {X: x2, Y: y1}, {X: x2, Y: y2}, {X: x1, Y: y2},
		}}
	}
	docProto := &documentaipb.Document{
		Text: text,
		Pages: []*documentaipb.Document_Page{{
			PageNumber: 1,
			Dimension:  &documentaipb.Document_Page_Dimension{Width: 1000, Height: 1000},
			Blocks:     []*documentaipb.Document_Page_Block{{Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(0, 8), BoundingPoly: poly(0.1, 0.1, 0.5, 0.13)}}},
			Lines:      []*documentaipb.Document_Page_Line{{Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(0, 8), BoundingPoly: poly(0.1, 0.1, 0.5, 0.13)}}},
			Tokens: []*documentaipb.Document_Page_Token{
				{Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(0, 4), BoundingPoly: poly(0.1, 0.1, 0.25, 0.13)}},
				{Layout: &documentaipb.Document_Page_Layout{TextAnchor: anchor(4, 8), BoundingPoly: poly(0.3, 0.1, 0.5, 0.13)}},
			},
		}},
	}
	data, err := protojson.Marshal(docProto)
	require.NoError(t, err)

	dir := t.TempDir()
	in := writeFile(t, dir, "response.json", string(data))
	txt := filepath.Join(dir, "out.txt")
	require.NoError(t, run(t, "analyze", "--docai", in, "--output", filepath.Join(dir, "out.hocr"), "--text", txt))

	out, err := os.ReadFile(txt)
	require.NoError(t, err)
	assert.Equal(t, "one two\n", string(out))
}

func TestText(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "page.hocr", sampleHOCR)

	raw := filepath.Join(dir, "raw.txt")
	require.NoError(t, run(t, "text", "--hocr", in, "--raw", "--output", raw))
	data, err := os.ReadFile(raw)
	require.NoError(t, err)
	assert.Equal(t, "Lorem ipsum\ndolor\nsit.\nAmet\nconsectetur\nelit.\n\ncell\n", string(data))

	analysed := filepath.Join(dir, "analysed.txt")
	require.NoError(t, run(t, "text", "--hocr", in, "--output", analysed, "--dpi", "300"))
	data, err = os.ReadFile(analysed)
	require.NoError(t, err)
	assert.Equal(t, "Lorem ipsum\ndolor\nsit.\n\nAmet\nconsectetur\nelit.\n\ncell\n", string(data))
}

func TestPageImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "scan.png", "png")
	doc := &hocr.HOCR{Pages: []hocr.Page{
		{ID: "page_1", ImageName: "/elsewhere/scan.png"},
		{ID: "page_2", ImageName: "missing.png"},
		{ID: "page_3"},
	}}

	images := pageImages(doc, dir, logrus.StandardLogger())
	require.Len(t, images, 3)
	assert.Equal(t, []byte("png"), images[0])
	assert.Nil(t, images[1])
	assert.Nil(t, images[2])
}

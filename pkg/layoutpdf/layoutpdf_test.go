package layoutpdf

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/gardar/hocrlayout/pkg/hocr"
)

func samplePage(id string) hocr.Page {
	word := func(text string, x1, y1, x2, y2 float64) hocr.Word {
		return hocr.Word{Text: text, BBox: hocr.NewBoundingBox(x1, y1, x2, y2)}
	}
	return hocr.Page{
		ID:      id,
		BBox:    hocr.NewBoundingBox(0, 0, 1200, 900),
		ScanRes: 150,
		Areas: []hocr.Area{
			{
				BBox:     hocr.NewBoundingBox(100, 100, 1000, 250),
				Metadata: map[string]string{hocr.PropIndentation: "indent"},
				Paragraphs: []hocr.Paragraph{{
					BBox: hocr.NewBoundingBox(100, 100, 1000, 250),
					Metadata: map[string]string{
						hocr.PropIndentation:     "indent",
						hocr.PropTextOrientation: "justified",
						hocr.PropFontSize:        "10",
					},
					Lines: []hocr.Line{
						{BBox: hocr.NewBoundingBox(150, 100, 1000, 130), Baseline: "0 -5",
							Words: []hocr.Word{word("Straße", 150, 100, 500, 130), word("naïve", 520, 100, 1000, 130)}},
						{BBox: hocr.NewBoundingBox(100, 140, 1000, 170), Baseline: "0.01 -4",
							Words: []hocr.Word{word("東京", 100, 140, 1000, 170)}},
					},
				}},
				Words: []hocr.Word{word("loose", 100, 200, 300, 250)},
			},
			{
				BBox:  hocr.NewBoundingBox(100, 400, 1000, 600),
				Table: true,
			},
		},
		Paragraphs: []hocr.Paragraph{{
			BBox:     hocr.NewBoundingBox(100, 700, 600, 730),
			Metadata: map[string]string{hocr.PropIndentation: "none", hocr.PropLayoutExtrapolated: "1"},
		}},
	}
}

func sampleDoc() *hocr.HOCR {
	return &hocr.HOCR{Pages: []hocr.Page{samplePage("page_1"), samplePage("page_2")}}
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 24, 18))
	for x := 0; x < 24; x++ {
		img.Set(x, x%18, color.RGBA{R: 200, A: 255})
	}
	return img
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	return buf.Bytes()
}

func tiffImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, testImage(), nil))
	return buf.Bytes()
}

func quietConfig() (Config, *test.Hook) {
	logger, hook := test.NewNullLogger()
	cfg := DefaultConfig()
	cfg.Logger = logger
	return cfg, hook
}

func TestRender(t *testing.T) {
	cfg, hook := quietConfig()
	out, err := Render(sampleDoc(), nil, cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Contains(t, string(out), "/OCG")

	// "東京" has no Latin-1 representation.
	require.Len(t, hook.Entries, 2)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, 2, hook.LastEntry().Data["page"])
}

func TestRender_WithImages(t *testing.T) {
	cfg, _ := quietConfig()
	out, err := Render(sampleDoc(), [][]byte{pngImage(t), tiffImage(t)}, cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_StartPage(t *testing.T) {
	cfg, _ := quietConfig()
	cfg.StartPage = 2
	cfg.Text = false
	cfg.Labels = false
	out, err := Render(sampleDoc(), [][]byte{nil, pngImage(t)}, cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRender_Invalid(t *testing.T) {
	cfg, _ := quietConfig()

	_, err := Render(nil, nil, cfg)
	require.Error(t, err)

	_, err = Render(&hocr.HOCR{}, nil, cfg)
	require.Error(t, err)

	cfg.StartPage = 3
	_, err = Render(sampleDoc(), nil, cfg)
	require.Error(t, err)

	cfg.StartPage = 1
	_, err = Render(sampleDoc(), [][]byte{[]byte("not an image")}, cfg)
	require.Error(t, err)
}

func TestRenderOverPDF(t *testing.T) {
	src := fpdf.New("P", "pt", "A4", "")
	src.AddPageFormat("P", fpdf.SizeType{Wd: 576, Ht: 432})
	src.AddPageFormat("P", fpdf.SizeType{Wd: 576, Ht: 432})
	var buf bytes.Buffer
	require.NoError(t, src.Output(&buf))

	cfg, _ := quietConfig()
	out, err := RenderOverPDF(sampleDoc(), buf.Bytes(), cfg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = RenderOverPDF(sampleDoc(), nil, cfg)
	require.Error(t, err)
}

func TestPrepareImage(t *testing.T) {
	typ, data, err := prepareImage(tiffImage(t))
	require.NoError(t, err)
	assert.Equal(t, "PNG", typ)
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	src := pngImage(t)
	typ, data, err = prepareImage(src)
	require.NoError(t, err)
	assert.Equal(t, "PNG", typ)
	assert.Equal(t, src, data)

	_, _, err = prepareImage([]byte("nope"))
	require.Error(t, err)
}

func TestLabels(t *testing.T) {
	page := samplePage("page_1")
	assert.Equal(t, "block indent", blockLabel(page.Areas[0]))
	assert.Equal(t, "table", blockLabel(page.Areas[1]))
	assert.Equal(t, "", blockLabel(hocr.Area{}))

	assert.Equal(t, "indent justified 10pt", paragraphLabel(page.Areas[0].Paragraphs[0]))
	assert.Equal(t, "none*", paragraphLabel(page.Paragraphs[0]))
}

func TestPageSize(t *testing.T) {
	w, h, scale := pageSize(samplePage("p"), DefaultConfig())
	assert.InDelta(t, 576, w, 1e-9)
	assert.InDelta(t, 432, h, 1e-9)
	assert.InDelta(t, 0.48, scale, 1e-9)

	page := samplePage("p")
	page.ScanRes = 0
	_, _, scale = pageSize(page, DefaultConfig())
	assert.InDelta(t, 0.24, scale, 1e-9)
}

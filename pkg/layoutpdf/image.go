package layoutpdf

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/pkg/errors"
	_ "golang.org/x/image/tiff"
)

// prepareImage returns the image data in a format fpdf can embed together
// with its type. Scans in other formats, TIFF in particular, are re-encoded
// as PNG.
func prepareImage(data []byte) (string, []byte, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to decode image config")
	}
	switch format = strings.ToUpper(format); format {
	case "PNG", "GIF":
		return format, data, nil
	case "JPEG":
		return "JPG", data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, errors.Wrapf(err, "failed to decode %s image", format)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, errors.Wrap(err, "failed to re-encode image as PNG")
	}
	return "PNG", buf.Bytes(), nil
}

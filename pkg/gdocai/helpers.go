package gdocai

import (
	"encoding/json"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToJSON converts various types to a pretty-printed JSON string
// It handles both protocol buffer messages and regular Go structs
func ToJSON(data any) (string, error) {
	switch v := data.(type) {
	case proto.Message:
		jsonData, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(v)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal proto message")
		}
		return string(jsonData), nil
	default:
		jsonData, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal value")
		}
		return string(jsonData), nil
	}
}

// PageImages returns the image content of every page in page order. Pages
// without an image yield a nil entry, so the result can be indexed by page.
func PageImages(doc *documentaipb.Document) ([][]byte, error) {
	if doc == nil {
		return nil, errors.New("no Document AI document provided")
	}
	images := make([][]byte, len(doc.GetPages()))
	found := false
	for i, page := range doc.GetPages() {
		if content := page.GetImage().GetContent(); len(content) > 0 {
			images[i] = content
			found = true
		}
	}
	if !found {
		return nil, errors.New("no page images found in Document AI document")
	}
	return images, nil
}

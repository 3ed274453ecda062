// Package gdocai converts saved Google Document AI responses into the hOCR
// object model so they can go through the same layout analysis as hOCR files.
//
// Document AI reports blocks, paragraphs, lines and tokens per page, each with
// a normalized bounding polygon and a text anchor into the document text.
// Containment between the levels is decided on the text anchors; coordinates
// are scaled to the page dimension in pixels.
//
// Main Functions:
//
// - LoadDocument: Decodes a Document AI JSON response
// - CreateHOCRStruct: Converts a Document AI proto to an HOCR document
// - CreateHOCRPage: Converts a single page
// - PageImages: Returns the page images embedded in a response
//
// The service itself is never called: responses are expected to be saved by
// whatever ran the recognition.
package gdocai

import (
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
)

// LoadDocument decodes a Document AI Document in its JSON encoding. Both the
// bare Document and a ProcessResponse wrapping it under "document" are accepted.
func LoadDocument(data []byte) (*documentaipb.Document, error) {
	opts := protojson.UnmarshalOptions{DiscardUnknown: true}

	var resp documentaipb.ProcessResponse
	if err := opts.Unmarshal(data, &resp); err == nil && resp.GetDocument() != nil {
		return resp.GetDocument(), nil
	}

	doc := &documentaipb.Document{}
	if err := opts.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, "failed to decode Document AI JSON")
	}
	if len(doc.GetPages()) == 0 {
		return nil, errors.New("Document AI response has no pages")
	}
	return doc, nil
}

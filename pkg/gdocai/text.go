package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	var result strings.Builder
	for _, seg := range layout.TextAnchor.TextSegments {
		start := min(max(int(seg.StartIndex), 0), len(runes))
		end := min(int(seg.EndIndex), len(runes))
		if start > end {
			start = end
		}
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}

// tokenText returns the token text on a single line without surrounding
// whitespace.
func tokenText(token *documentaipb.Document_Page_Token, fullText string) string {
	text := strings.TrimSpace(textFromLayout(token.Layout, fullText))
	text = strings.ReplaceAll(text, "\r", "")
	return strings.ReplaceAll(text, "\n", " ")
}

package region

import (
	"strconv"
	"strings"
)

// Key names an attribute on a region.
type Key string

// Attributes understood by the layout engine.
const (
	KeyIndentation        Key = "indentation"
	KeyTextOrientation    Key = "textOrientation"
	KeyFontSize           Key = "fontSize"
	KeyBaseline           Key = "baseline"
	KeyLineHeight         Key = "lineHeight"
	KeyLayoutExtrapolated Key = "layoutExtrapolated"
)

// Indentation classifies the first-line offset of a paragraph (or block).
type Indentation int

const (
	IndentationNone Indentation = iota + 1
	IndentationIndent
	IndentationExdent
	IndentationMixed
)

func (i Indentation) String() string {
	switch i {
	case IndentationNone:
		return "none"
	case IndentationIndent:
		return "indent"
	case IndentationExdent:
		return "exdent"
	case IndentationMixed:
		return "mixed"
	}
	return ""
}

// ParseIndentation parses the string form produced by Indentation.String.
func ParseIndentation(s string) (Indentation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return IndentationNone, true
	case "indent":
		return IndentationIndent, true
	case "exdent":
		return IndentationExdent, true
	case "mixed":
		return IndentationMixed, true
	}
	return 0, false
}

// TextOrientation classifies the edge alignment of a paragraph's lines.
type TextOrientation int

const (
	OrientationLeft TextOrientation = iota + 1
	OrientationRight
	OrientationJustified
	OrientationCentered
)

func (o TextOrientation) String() string {
	switch o {
	case OrientationLeft:
		return "left"
	case OrientationRight:
		return "right"
	case OrientationJustified:
		return "justified"
	case OrientationCentered:
		return "centered"
	}
	return ""
}

// ParseTextOrientation parses the string form produced by TextOrientation.String.
func ParseTextOrientation(s string) (TextOrientation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return OrientationLeft, true
	case "right":
		return OrientationRight, true
	case "justified":
		return OrientationJustified, true
	case "centered":
		return OrientationCentered, true
	}
	return 0, false
}

type valueKind uint8

const (
	kindString valueKind = iota + 1
	kindInt
	kindBool
	kindIndentation
	kindOrientation
)

// Value is a tagged attribute value. The zero Value is "absent".
type Value struct {
	kind valueKind
	s    string
	n    int
}

// Constructors for each value kind.
func StringValue(s string) Value { return Value{kind: kindString, s: s} }
func IntValue(n int) Value { return Value{kind: kindInt, n: n} }
func BoolValue(b bool) Value { return Value{kind: kindBool, n: boolToInt(b)} }
func IndentationValue(i Indentation) Value { return Value{kind: kindIndentation, n: int(i)} }
func OrientationValue(o TextOrientation) Value { return Value{kind: kindOrientation, n: int(o)} }

// IsZero reports whether the value is absent.
func (v Value) IsZero() bool { return v.kind == 0 }

// String renders the value the way it is stored in string attribute bags.
func (v Value) String() string {
	switch v.kind {
	case kindString:
		return v.s
	case kindInt:
		return strconv.Itoa(v.n)
	case kindBool:
		return strconv.FormatBool(v.n != 0)
	case kindIndentation:
		return Indentation(v.n).String()
	case kindOrientation:
		return TextOrientation(v.n).String()
	}
	return ""
}

// Int returns the value as an integer. String values are parsed; a malformed
// string reads as absent.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case kindInt:
		return v.n, true
	case kindString:
		n, err := strconv.Atoi(strings.TrimSpace(v.s))
		if err != nil {
			// hOCR emits some integer properties as decimals
			f, ferr := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
			if ferr != nil {
				return 0, false
			}
			return int(f + 0.5), true
		}
		return n, true
	}
	return 0, false
}

// Bool returns the value as a boolean.
func (v Value) Bool() (bool, bool) {
	switch v.kind {
	case kindBool:
		return v.n != 0, true
	case kindString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.s))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// Indentation returns the value as an Indentation class.
func (v Value) Indentation() (Indentation, bool) {
	switch v.kind {
	case kindIndentation:
		return Indentation(v.n), true
	case kindString:
		return ParseIndentation(v.s)
	}
	return 0, false
}

// TextOrientation returns the value as a TextOrientation class.
func (v Value) TextOrientation() (TextOrientation, bool) {
	switch v.kind {
	case kindOrientation:
		return TextOrientation(v.n), true
	case kindString:
		return ParseTextOrientation(v.s)
	}
	return 0, false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

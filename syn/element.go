package syn

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedLine is returned by ParseLine when a line matches an element
// prefix but its payload does not have the required shape.
var ErrMalformedLine = errors.New("syn: malformed line")

const (
	lineHMarker   = "---"
	headingPrefix = "#"
	imagePrefix   = ".img "
	codePrefix    = ".code "
	imageSep      = "|"
)

// Element is one markup unit of a post body. The set of kinds is closed:
// Text, Heading, Image, LineH and Code.
type Element interface {
	// HTML returns the element as an HTML fragment. Payloads are not escaped.
	HTML() string
	// Line returns the element in its wire form, the inverse of ParseLine.
	Line() string
	// Kind reports which variant the element is.
	Kind() Kind

	element()
}

// Kind names an element variant.
type Kind int

const (
	KindText Kind = iota
	KindHeading
	KindImage
	KindLineH
	KindCode
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHeading:
		return "heading"
	case KindImage:
		return "image"
	case KindLineH:
		return "lineh"
	case KindCode:
		return "code"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Text is a paragraph. Body may contain newlines, rendered as line breaks.
type Text struct {
	Body string
}

// Heading is a section header.
type Heading struct {
	Text string
}

// Image references a picture. Alt is rendered as element content.
type Image struct {
	Path  string
	Alt   string
	Style string
}

// LineH is a horizontal divider.
type LineH struct{}

// Code is a single line of code.
type Code struct {
	Text string
}

// interface check

var _ = []Element{
	Text{},
	Heading{},
	Image{},
	LineH{},
	Code{},
}

// ParseLine converts one source line into an Element. The line is expected
// to be stripped of its terminator and surrounding whitespace already.
// Classification is by first match: divider, heading, image, code, text.
func ParseLine(line string) (Element, error) {
	switch {
	case line == lineHMarker:
		return LineH{}, nil
	case strings.HasPrefix(line, headingPrefix):
		return Heading{Text: line[len(headingPrefix):]}, nil
	case strings.HasPrefix(line, imagePrefix):
		fields := strings.Split(line[len(imagePrefix):], imageSep)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: image needs 3 fields, got %d", ErrMalformedLine, len(fields))
		}
		return Image{Path: fields[0], Alt: fields[1], Style: fields[2]}, nil
	case strings.HasPrefix(line, codePrefix):
		return Code{Text: line[len(codePrefix):]}, nil
	default:
		return Text{Body: line}, nil
	}
}

func (t Text) HTML() string {
	return "<p>" + strings.ReplaceAll(t.Body, "\n", "<br>") + "</p>"
}

func (t Text) Line() string { return t.Body }
func (Text) Kind() Kind      { return KindText }
func (Text) element()        {}

func (h Heading) HTML() string { return "<h2>" + h.Text + "</h2>" }
func (h Heading) Line() string { return headingPrefix + h.Text }
func (Heading) Kind() Kind     { return KindHeading }
func (Heading) element()       {}

func (i Image) HTML() string {
	return "<img src='" + i.Path + "' style='" + i.Style + "'>" + i.Alt + "</img>"
}

func (i Image) Line() string {
	return imagePrefix + i.Path + imageSep + i.Alt + imageSep + i.Style
}

func (Image) Kind() Kind { return KindImage }
func (Image) element()   {}

func (LineH) HTML() string { return "<div class='hline'></div>" }
func (LineH) Line() string { return lineHMarker }
func (LineH) Kind() Kind   { return KindLineH }
func (LineH) element()     {}

func (c Code) HTML() string { return "<p class='code'>" + c.Text + "</p>" }
func (c Code) Line() string { return codePrefix + c.Text }
func (Code) Kind() Kind     { return KindCode }
func (Code) element()       {}

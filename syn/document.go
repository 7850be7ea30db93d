package syn

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrTruncatedHeader is returned when a document ends before its four
// header lines have been read.
var ErrTruncatedHeader = errors.New("syn: truncated header")

// PostedLayout is the display format of a post's timestamp.
const PostedLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

const headerLines = 4

// Document is one post: a fixed metadata header followed by its elements.
type Document struct {
	Title    string
	Tags     []string
	Posted   uint64 // seconds since the Unix epoch
	Summary  string
	Elements []Element
}

// New returns a Document that owns copies of tags and elements.
func New(title string, tags []string, posted uint64, summary string, elements ...Element) *Document {
	return &Document{
		Title:    title,
		Tags:     append([]string(nil), tags...),
		Posted:   posted,
		Summary:  summary,
		Elements: append([]Element(nil), elements...),
	}
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	return New(d.Title, d.Tags, d.Posted, d.Summary, d.Elements...)
}

// Equal reports whether d and o hold the same metadata and elements.
// A nil slice and an empty slice compare equal.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.Title != o.Title || d.Posted != o.Posted || d.Summary != o.Summary {
		return false
	}
	if len(d.Tags) != len(o.Tags) || len(d.Elements) != len(o.Elements) {
		return false
	}
	for i := range d.Tags {
		if d.Tags[i] != o.Tags[i] {
			return false
		}
	}
	for i := range d.Elements {
		if d.Elements[i] != o.Elements[i] {
			return false
		}
	}
	return true
}

// Decoder reads documents in wire form from an input stream.
type Decoder struct {
	r *bufio.Reader

	// OnDrop, if set, is called for every body block that fails to parse.
	// Such blocks are skipped either way.
	OnDrop func(block string, err error)
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Parse reads a full document from r.
func Parse(r io.Reader) (*Document, error) {
	return NewDecoder(r).Decode()
}

// ParseMetadata reads only the header of a document from r. The body is
// never consumed and the returned document has no elements.
func ParseMetadata(r io.Reader) (*Document, error) {
	return NewDecoder(r).DecodeMetadata()
}

// Decode reads the header and the body.
func (dec *Decoder) Decode() (*Document, error) {
	doc, err := dec.DecodeMetadata()
	if err != nil {
		return nil, err
	}
	if err := dec.body(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DecodeMetadata reads the four header lines.
func (dec *Decoder) DecodeMetadata() (*Document, error) {
	var lines [headerLines]string
	for i := range lines {
		line, ok, err := dec.readLine()
		if err != nil {
			return nil, fmt.Errorf("syn: read header: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: got %d of %d lines", ErrTruncatedHeader, i, headerLines)
		}
		lines[i] = strings.TrimSpace(line)
	}
	return &Document{
		Title:   lines[0],
		Tags:    parseTags(lines[1]),
		Posted:  parsePosted(lines[2]),
		Summary: lines[3],
	}, nil
}

// DecodeBody reads a headerless body, as found after the header of a
// document.
func (dec *Decoder) DecodeBody() ([]Element, error) {
	var doc Document
	if err := dec.body(&doc); err != nil {
		return nil, err
	}
	return doc.Elements, nil
}

type scanState int

const (
	stateIdle scanState = iota
	stateCollecting
)

// body scans blank-line separated blocks. Consecutive non-blank lines form
// one block, joined with newlines; a blank line or the end of input hands
// the block to ParseLine.
func (dec *Decoder) body(doc *Document) error {
	state := stateIdle
	var block strings.Builder

	flush := func() {
		el, err := ParseLine(block.String())
		if err != nil {
			if dec.OnDrop != nil {
				dec.OnDrop(block.String(), err)
			}
		} else {
			doc.Elements = append(doc.Elements, el)
		}
		block.Reset()
		state = stateIdle
	}

	for {
		raw, ok, err := dec.readLine()
		if err != nil {
			return fmt.Errorf("syn: read body: %w", err)
		}
		if !ok {
			break
		}
		line := strings.TrimSpace(raw)
		switch state {
		case stateIdle:
			if line != "" {
				block.WriteString(line)
				state = stateCollecting
			}
		case stateCollecting:
			if line == "" {
				flush()
			} else {
				block.WriteByte('\n')
				block.WriteString(line)
			}
		}
	}
	if state == stateCollecting {
		flush()
	}
	return nil
}

// readLine returns the next line including its terminator. ok is false once
// the input is exhausted.
func (dec *Decoder) readLine() (line string, ok bool, err error) {
	line, err = dec.r.ReadString('\n')
	if err == io.EOF {
		return line, line != "", nil
	}
	if err != nil {
		return "", false, err
	}
	return line, true, nil
}

func parseTags(s string) []string {
	tags := strings.Split(s, ",")
	for i := range tags {
		tags[i] = strings.TrimSpace(tags[i])
	}
	return tags
}

// parsePosted falls back to 0 for a missing or malformed timestamp.
func parsePosted(s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// WriteTo writes d in wire form: the header lines, a blank line, then every
// element followed by a blank line.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

// String returns the wire form of d.
func (d *Document) String() string {
	var b strings.Builder
	b.WriteString(d.Title)
	b.WriteByte('\n')
	b.WriteString(strings.Join(d.Tags, ","))
	b.WriteByte('\n')
	b.WriteString(strconv.FormatUint(d.Posted, 10))
	b.WriteByte('\n')
	b.WriteString(d.Summary)
	b.WriteString("\n\n")
	b.WriteString(d.Body())
	return b.String()
}

// Body returns the wire form of the elements alone.
func (d *Document) Body() string {
	var b strings.Builder
	for _, el := range d.Elements {
		b.WriteString(el.Line())
		b.WriteString("\n\n")
	}
	return b.String()
}

// HTML renders every element in order.
func (d *Document) HTML() string {
	var b strings.Builder
	for _, el := range d.Elements {
		b.WriteString(el.HTML())
	}
	return b.String()
}

// PostedTime returns the posted timestamp as a time.Time.
func (d *Document) PostedTime() time.Time {
	secs := d.Posted
	if secs > math.MaxInt64 {
		secs = math.MaxInt64
	}
	return time.Unix(int64(secs), 0)
}

// FormatPosted formats the posted timestamp in loc using PostedLayout.
func (d *Document) FormatPosted(loc *time.Location) string {
	return d.PostedTime().In(loc).Format(PostedLayout)
}

// PostedString formats the posted timestamp in the local time zone.
func (d *Document) PostedString() string {
	return d.FormatPosted(time.Local)
}

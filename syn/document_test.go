package syn

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePost = `My first post
go, blog ,notes
1700000000
  A short summary

#Introduction

Hello,
SynBlog!

.img cat.png|A cat|width:100%

---

.code fmt.Println("hi")
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(samplePost))
	require.NoError(t, err)

	assert.Equal(t, "My first post", doc.Title)
	assert.Equal(t, []string{"go", "blog", "notes"}, doc.Tags)
	assert.Equal(t, uint64(1700000000), doc.Posted)
	assert.Equal(t, "A short summary", doc.Summary)
	assert.Equal(t, []Element{
		Heading{Text: "Introduction"},
		Text{Body: "Hello,\nSynBlog!"},
		Image{Path: "cat.png", Alt: "A cat", Style: "width:100%"},
		LineH{},
		Code{Text: `fmt.Println("hi")`},
	}, doc.Elements)
}

func TestParseMetadata(t *testing.T) {
	doc, err := ParseMetadata(strings.NewReader(samplePost))
	require.NoError(t, err)
	assert.Equal(t, "My first post", doc.Title)
	assert.Equal(t, uint64(1700000000), doc.Posted)
	assert.Empty(t, doc.Elements)
}

func TestParseTruncatedHeader(t *testing.T) {
	for _, src := range []string{"", "Title\n", "Title\ntags\n", "Title\ntags\n1\n"} {
		_, err := Parse(strings.NewReader(src))
		assert.True(t, errors.Is(err, ErrTruncatedHeader), "Parse(%q) err = %v", src, err)

		_, err = ParseMetadata(strings.NewReader(src))
		assert.True(t, errors.Is(err, ErrTruncatedHeader), "ParseMetadata(%q) err = %v", src, err)
	}
}

func TestParseHeaderWithoutTrailingNewline(t *testing.T) {
	doc, err := Parse(strings.NewReader("Title\ntag\n5\nsummary"))
	require.NoError(t, err)
	assert.Equal(t, "summary", doc.Summary)
	assert.Empty(t, doc.Elements)
}

// A missing or malformed posted field silently becomes 0. Both cases are
// accepted on purpose; the header never fails on field contents.
func TestParsePostedFallback(t *testing.T) {
	for _, posted := range []string{"not-a-number", "", "-5", "1.5", "18446744073709551616"} {
		doc, err := Parse(strings.NewReader("T\ntag\n" + posted + "\nS\n"))
		require.NoError(t, err, posted)
		assert.Equal(t, uint64(0), doc.Posted, posted)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"go", []string{"go"}},
		{"go,web", []string{"go", "web"}},
		{" go , web ", []string{"go", "web"}},
		{"go,,web", []string{"go", "", "web"}},
		{",go,", []string{"", "go", ""}},
		{"", []string{""}},
		{"go,go", []string{"go", "go"}},
	}
	for _, tt := range tests {
		doc, err := ParseMetadata(strings.NewReader("T\n" + tt.line + "\n0\nS\n"))
		require.NoError(t, err)
		assert.Equal(t, tt.want, doc.Tags, tt.line)
	}
}

// Blocks that fail to parse are dropped and the rest of the body is kept in
// order. This is deliberate leniency, not an error path.
func TestParseDropsMalformedBlocks(t *testing.T) {
	src := "T\ntag\n1\nS\n\n#Before\n\n.img only|two\n\nAfter\n\n.img a|b|c|d\n"
	var dropped []string
	dec := NewDecoder(strings.NewReader(src))
	dec.OnDrop = func(block string, err error) {
		assert.True(t, errors.Is(err, ErrMalformedLine))
		dropped = append(dropped, block)
	}
	doc, err := dec.Decode()
	require.NoError(t, err)
	assert.Equal(t, []Element{Heading{Text: "Before"}, Text{Body: "After"}}, doc.Elements)
	assert.Equal(t, []string{".img only|two", ".img a|b|c|d"}, dropped)

	doc, err = Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Len(t, doc.Elements, 2)
}

func TestParseBlankLineHandling(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []Element
	}{
		{"empty body", "", nil},
		{"only blank lines", "\n\n\n", nil},
		{"no separator after header", "#H\n", []Element{Heading{Text: "H"}}},
		{"leading blank lines", "\n\n\n#H\n\n", []Element{Heading{Text: "H"}}},
		{"repeated separators", "#A\n\n\n\n#B\n", []Element{Heading{Text: "A"}, Heading{Text: "B"}}},
		{"trailing block without separator", "\n#A\n\nlast", []Element{Heading{Text: "A"}, Text{Body: "last"}}},
		{"whitespace only line separates", "a\n   \nb\n", []Element{Text{Body: "a"}, Text{Body: "b"}}},
		{"lines are trimmed", "\n   #H  \n\n", []Element{Heading{Text: "H"}}},
		{"crlf", "\r\n#H\r\n\r\nx\r\ny\r\n\r\n", []Element{Heading{Text: "H"}, Text{Body: "x\ny"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader("T\ntag\n1\nS\n" + tt.body))
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, doc.Elements)
			} else {
				assert.Equal(t, tt.want, doc.Elements)
			}
		})
	}
}

func TestSerialize(t *testing.T) {
	doc := New("Title", []string{"go", "web"}, 1700000000, "Sum",
		Heading{Text: "Intro"},
		Text{Body: "a\nb"},
		LineH{},
		Image{Path: "p.png", Alt: "alt", Style: "s"},
		Code{Text: "x"},
	)
	want := "Title\ngo,web\n1700000000\nSum\n\n" +
		"#Intro\n\n" +
		"a\nb\n\n" +
		"---\n\n" +
		".img p.png|alt|s\n\n" +
		".code x\n\n"
	assert.Equal(t, want, doc.String())

	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(want)), n)
	assert.Equal(t, want, buf.String())
}

func TestSerializeRoundTrip(t *testing.T) {
	docs := []*Document{
		New("Title", []string{"go", "web"}, 1700000000, "Summary",
			Heading{Text: "Intro"},
			Text{Body: "Hello,\nSynBlog!"},
			Image{Path: "test.png", Alt: "A test image!", Style: "width:100%"},
			LineH{},
			Code{Text: "go vet ./..."},
		),
		New("Metadata only", []string{"one"}, 0, ""),
		New("Dup tags", []string{"a", "a", ""}, 42, "s", Text{Body: "only"}),
	}
	for _, doc := range docs {
		before := doc.String()
		got, err := Parse(strings.NewReader(doc.String()))
		require.NoError(t, err)
		assert.True(t, doc.Equal(got), "round trip of %q gave %q", before, got.String())
		assert.Equal(t, before, doc.String(), "serialization mutated the document")
	}
}

// An empty tag line reads back as one empty tag, so a document built with
// no tags is not equal to its parsed copy. Callers filter empty tags.
func TestZeroTagsReadBackAsEmptyTag(t *testing.T) {
	doc := New("T", nil, 1, "S", Text{Body: "x"})
	assert.Equal(t, "T\n\n1\nS\n\nx\n\n", doc.String())

	got, err := Parse(strings.NewReader(doc.String()))
	require.NoError(t, err)
	assert.Equal(t, []string{""}, got.Tags)
	assert.False(t, doc.Equal(got))

	doc.Tags = []string{""}
	assert.True(t, doc.Equal(got))
}

// Lines are trimmed on read, so these elements change or vanish when a
// document is written and parsed again.
func TestSerializeLossyElements(t *testing.T) {
	tests := []struct {
		name string
		el   Element
		want []Element
	}{
		{"empty text is a blank line", Text{Body: ""}, nil},
		{"empty code reads as text", Code{Text: ""}, []Element{Text{Body: ".code"}}},
		{"heading trailing space", Heading{Text: "x "}, []Element{Heading{Text: "x"}}},
		{"image style trailing space", Image{Path: "p.png", Alt: "a", Style: "w "}, []Element{Image{Path: "p.png", Alt: "a", Style: "w"}}},
		{"text leading space", Text{Body: "  indented"}, []Element{Text{Body: "indented"}}},
		{"text with prefix", Text{Body: "#not a heading"}, []Element{Heading{Text: "not a heading"}}},
		{"text with blank line", Text{Body: "a\n\nb"}, []Element{Text{Body: "a"}, Text{Body: "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := New("T", []string{"x"}, 1, "S", tt.el)
			got, err := Parse(strings.NewReader(doc.String()))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Elements)
		})
	}
}

func TestNewCopiesSlices(t *testing.T) {
	tags := []string{"a", "b"}
	els := []Element{Text{Body: "x"}}
	doc := New("T", tags, 1, "S", els...)
	tags[0] = "changed"
	els[0] = LineH{}
	assert.Equal(t, []string{"a", "b"}, doc.Tags)
	assert.Equal(t, []Element{Text{Body: "x"}}, doc.Elements)

	clone := doc.Clone()
	clone.Tags[1] = "changed"
	assert.Equal(t, "b", doc.Tags[1])
	assert.True(t, doc.Equal(doc.Clone()))
}

func TestEqual(t *testing.T) {
	a := &Document{Title: "T", Tags: []string{"x"}}
	b := &Document{Title: "T", Tags: []string{"x"}, Elements: []Element{}}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(&Document{Title: "T", Tags: []string{"y"}}))
	assert.False(t, a.Equal(&Document{Title: "T", Tags: []string{"x"}, Elements: []Element{LineH{}}}))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Document)(nil).Equal(nil))
}

func TestDocumentHTML(t *testing.T) {
	doc := New("T", nil, 0, "", Heading{Text: "H"}, Text{Body: "a\nb"}, LineH{})
	want := "<h2>H</h2><p>a<br>b</p><div class='hline'></div>"
	assert.Equal(t, want, doc.HTML())

	var buf bytes.Buffer
	require.NoError(t, Component(doc).Render(context.Background(), &buf))
	assert.Equal(t, want, buf.String())
}

func TestFormatPosted(t *testing.T) {
	doc := &Document{Posted: 0}
	assert.Equal(t, "Thu, 01 Jan 1970 00:00:00 +0000", doc.FormatPosted(time.UTC))
	assert.Equal(t, "Thu, 01 Jan 1970 02:00:00 +0200", doc.FormatPosted(time.FixedZone("EET", 2*60*60)))

	doc.Posted = 1700000000
	assert.Equal(t, "Tue, 14 Nov 2023 22:13:20 +0000", doc.FormatPosted(time.UTC))
	assert.Equal(t, doc.FormatPosted(time.Local), doc.PostedString())
	assert.Equal(t, int64(1700000000), doc.PostedTime().Unix())
}

func TestLoadAndSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.syn")
	doc := New("Saved", []string{"disk"}, 99, "On disk", Heading{Text: "H"}, Text{Body: "body"})
	require.NoError(t, SaveFile(path, doc))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, doc.Equal(got))

	meta, err := LoadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, "Saved", meta.Title)
	assert.Empty(t, meta.Elements)
}

func TestLoadFileFuncReportsDrops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.syn")
	doc := New("T", []string{"x"}, 1, "S", Text{Body: ".img broken"}, Heading{Text: "kept"})
	require.NoError(t, SaveFile(path, doc))

	var dropped []string
	got, err := LoadFileFunc(path, func(block string, err error) {
		dropped = append(dropped, block)
	})
	require.NoError(t, err)
	assert.Equal(t, []Element{Heading{Text: "kept"}}, got.Elements)
	assert.Equal(t, []string{".img broken"}, dropped)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.syn"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)

	_, err = LoadMetadata(filepath.Join(t.TempDir(), "missing.syn"))
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)
}

func TestLoadFileTruncatedHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.syn")
	require.NoError(t, os.WriteFile(path, []byte("only a title\n"), 0o644))
	_, err := LoadFile(path)
	assert.True(t, errors.Is(err, ErrTruncatedHeader), "err = %v", err)
}

func TestDecodeBody(t *testing.T) {
	els, err := NewDecoder(strings.NewReader("#H\n\ntext\n\n.img bad\n")).DecodeBody()
	require.NoError(t, err)
	assert.Equal(t, []Element{Heading{Text: "H"}, Text{Body: "text"}}, els)

	doc := New("T", nil, 0, "", els...)
	assert.Equal(t, "#H\n\ntext\n\n", doc.Body())
}

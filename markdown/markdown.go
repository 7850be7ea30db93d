// Package markdown converts Markdown sources into SynBlog elements so that
// existing posts can be imported.
package markdown

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/eringen/synblog/syn"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Convert parses src as GitHub flavoured Markdown and maps every block onto
// the closest element kind. Headings of any level become Heading, code
// blocks become one Code per non-blank line, lists, quotes and tables are
// flattened into Text. An image alone in a paragraph becomes an Image whose
// style is taken from the image title. Raw HTML blocks are skipped.
//
// The syn format has no escaping, so paragraphs that start with an element
// prefix such as "#" will change kind when the result is parsed again.
func Convert(src []byte) []syn.Element {
	return convert(src).out
}

func convert(src []byte) *converter {
	root := md.Parser().Parse(text.NewReader(src))
	c := &converter{src: src, title: -1}
	c.blocks(root)
	return c
}

// ToDocument converts src into a document. The first level one heading
// becomes the title and is removed from the body; the first line of the
// first paragraph becomes the summary.
func ToDocument(src []byte, tags []string, posted uint64) *syn.Document {
	c := convert(src)
	var title, summary string
	var body []syn.Element
	for i, el := range c.out {
		if i == c.title {
			title = el.(syn.Heading).Text
			continue
		}
		if t, ok := el.(syn.Text); ok && summary == "" {
			summary, _, _ = strings.Cut(t.Body, "\n")
		}
		body = append(body, el)
	}
	return syn.New(title, tags, posted, summary, body...)
}

// Title returns the text of the first level one heading in src, or "".
func Title(src []byte) string {
	c := convert(src)
	if c.title < 0 {
		return ""
	}
	return c.out[c.title].(syn.Heading).Text
}

type converter struct {
	src   []byte
	out   []syn.Element
	title int // index of the first level one heading in out, or -1
}

func (c *converter) emit(el syn.Element) {
	c.out = append(c.out, el)
}

func (c *converter) blocks(n ast.Node) {
	for b := n.FirstChild(); b != nil; b = b.NextSibling() {
		c.block(b)
	}
}

func (c *converter) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		if n.Level == 1 && c.title < 0 {
			c.title = len(c.out)
		}
		c.emit(syn.Heading{Text: oneLine(c.inline(n))})
	case *ast.ThematicBreak:
		c.emit(syn.LineH{})
	case *ast.FencedCodeBlock:
		c.code(n.Lines())
	case *ast.CodeBlock:
		c.code(n.Lines())
	case *ast.Paragraph, *ast.TextBlock:
		c.paragraph(n)
	case *ast.List:
		c.list(n)
	case *ast.Blockquote:
		c.text(c.collect(n))
	case *extast.Table:
		c.table(n)
	case *ast.HTMLBlock:
	default:
		c.blocks(n)
	}
}

func (c *converter) code(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(c.src)), " \t\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.emit(syn.Code{Text: line})
	}
}

// paragraph emits the inline text of n, split around images.
func (c *converter) paragraph(n ast.Node) {
	var b strings.Builder
	for in := n.FirstChild(); in != nil; in = in.NextSibling() {
		img, ok := in.(*ast.Image)
		if !ok {
			c.appendInline(&b, in)
			continue
		}
		c.text(b.String())
		b.Reset()
		var alt strings.Builder
		c.appendChildren(&alt, img)
		c.emit(syn.Image{
			Path:  field(string(img.Destination)),
			Alt:   field(oneLine(alt.String())),
			Style: field(string(img.Title)),
		})
	}
	c.text(b.String())
}

func (c *converter) list(l *ast.List) {
	var items []string
	num := l.Start
	for it := l.FirstChild(); it != nil; it = it.NextSibling() {
		marker := "- "
		if l.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		items = append(items, marker+oneLine(c.collect(it)))
	}
	c.text(strings.Join(items, "\n"))
}

func (c *converter) table(t *extast.Table) {
	var rows []string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, oneLine(c.inline(cell)))
		}
		rows = append(rows, strings.Join(cells, " | "))
	}
	c.text(strings.Join(rows, "\n"))
}

// collect gathers the text of every paragraph below n, one per line.
func (c *converter) collect(n ast.Node) string {
	var parts []string
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			parts = append(parts, c.inline(node))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(parts, "\n")
}

// text emits s as a Text element. Lines are trimmed and blank lines removed
// since a blank line would end the block on disk.
func (c *converter) text(s string) {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		c.emit(syn.Text{Body: strings.Join(lines, "\n")})
	}
}

func (c *converter) inline(n ast.Node) string {
	var b strings.Builder
	c.appendChildren(&b, n)
	return b.String()
}

func (c *converter) appendChildren(b *strings.Builder, n ast.Node) {
	for in := n.FirstChild(); in != nil; in = in.NextSibling() {
		c.appendInline(b, in)
	}
}

func (c *converter) appendInline(b *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(c.src))
		if n.SoftLineBreak() || n.HardLineBreak() {
			b.WriteByte('\n')
		}
	case *ast.String:
		b.Write(n.Value)
	case *ast.AutoLink:
		b.Write(n.URL(c.src))
	case *ast.RawHTML:
	default:
		c.appendChildren(b, n)
	}
}

// field makes s safe to use as an image field, which cannot hold the
// separator.
func field(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", "/")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

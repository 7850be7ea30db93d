package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/synblog"
	"github.com/eringen/synblog/syn"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

var cfg = synblog.SiteConfig{Name: "Site <1>", URL: "https://example.com"}

func samplePost() synblog.Post {
	return synblog.Post{
		Slug:      "hello",
		Published: true,
		Document: syn.New("Hello & bye", []string{"go", "", "a&b"}, 1700000000, "Sum <b>",
			syn.Heading{Text: "Intro"},
			syn.Text{Body: "<em>raw</em>"},
		),
	}
}

func TestDefaultIsComplete(t *testing.T) {
	v := Default()
	assert.NotNil(t, v.Home)
	assert.NotNil(t, v.Post)
	assert.NotNil(t, v.AdminLogin)
	assert.NotNil(t, v.AdminDashboard)
	assert.NotNil(t, v.AdminForm)
	assert.NotNil(t, v.AdminImages)
	assert.NotNil(t, v.NotFound)
	assert.NotNil(t, v.ServerError)
}

func TestHomeEscapesMetadata(t *testing.T) {
	out := render(t, Home([]synblog.Post{samplePost()}, "go", []string{"a&b", "go"}, cfg))
	assert.Contains(t, out, "<title>Site &lt;1&gt;</title>")
	assert.Contains(t, out, `<a href="/blog/hello/">Hello &amp; bye</a>`)
	assert.Contains(t, out, "Sum &lt;b&gt;")
	assert.Contains(t, out, `href="/?tag=a%26b"`)
	assert.Contains(t, out, `<a class="tag active" href="/?tag=go">go</a>`)
}

func TestHomeEmpty(t *testing.T) {
	assert.Contains(t, render(t, Home(nil, "", nil, cfg)), "No posts yet.")
}

func TestPostPageRendersElements(t *testing.T) {
	related := samplePost()
	related.Slug = "other"
	out := render(t, PostPage(samplePost(), []synblog.Post{related}, cfg))

	assert.Contains(t, out, "<h1>Hello &amp; bye</h1>")
	// Element payloads are written as is.
	assert.Contains(t, out, "<h2>Intro</h2><p><em>raw</em></p>")
	assert.Contains(t, out, `<a href="/blog/hello/source/">source</a>`)
	assert.Contains(t, out, `<a href="/blog/other/">`)
	assert.Contains(t, out, "go, a&amp;b")
	assert.Contains(t, out, `<link rel="canonical" href="https://example.com/blog/hello/">`)
	assert.Contains(t, out, `"@type":"BlogPosting"`)
}

func TestAdminFormWithoutDocument(t *testing.T) {
	out := render(t, AdminForm(synblog.Post{}, "tok"))
	assert.Contains(t, out, `<input type="hidden" name="_csrf" value="tok">`)
	assert.Contains(t, out, `name="title" value=""`)
	assert.NotContains(t, out, " checked")
}

func TestAdminFormPrefills(t *testing.T) {
	out := render(t, AdminForm(samplePost(), "tok"))
	assert.Contains(t, out, `name="tags" value="go,a&amp;b"`)
	assert.Contains(t, out, `name="posted" value="1700000000"`)
	assert.Contains(t, out, "#Intro\n\n&lt;em&gt;raw&lt;/em&gt;\n\n</textarea>")
	assert.Contains(t, out, " checked")
}

func TestAdminDashboard(t *testing.T) {
	draft := samplePost()
	draft.Published = false
	out := render(t, AdminDashboard([]synblog.Post{draft}, "saved", "tok"))
	assert.Contains(t, out, `<p class="message">saved</p>`)
	assert.Contains(t, out, "draft")
	assert.Contains(t, out, `<input type="hidden" name="_method" value="DELETE">`)
	assert.Contains(t, out, `action="/admin/save/"`)
}

func TestAdminImagesShowsLine(t *testing.T) {
	img := synblog.Image{Filename: "cat.webp", OriginalName: "cat", Width: 4, Height: 3}
	out := render(t, AdminImages([]synblog.Image{img}, "", "tok"))
	assert.Contains(t, out, "<code>.img /public/uploads/cat.webp|cat|width:100%</code> 4x3")
}

func TestErrorPages(t *testing.T) {
	assert.Contains(t, render(t, NotFound()), "Not found")
	assert.Contains(t, render(t, ServerError()), "Something went wrong")
	assert.Contains(t, render(t, AdminLogin(true, "tok")), "Wrong password.")
}

// Package views provides plain default pages for a synblog App. Sites
// that want their own look pass their own synblog.ViewFuncs instead.
package views

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/synblog"
	"github.com/eringen/synblog/syn"
)

// Default returns the built-in views.
func Default() synblog.ViewFuncs {
	return synblog.ViewFuncs{
		Home:           Home,
		Post:           PostPage,
		AdminLogin:     AdminLogin,
		AdminDashboard: AdminDashboard,
		AdminForm:      AdminForm,
		AdminImages:    AdminImages,
		NotFound:       NotFound,
		ServerError:    ServerError,
	}
}

// Home lists posts with a tag filter.
func Home(posts []synblog.Post, activeTag string, tags []string, cfg synblog.SiteConfig) templ.Component {
	meta := synblog.PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         synblog.BuildURL(cfg.URL),
		OGType:      "website",
	}
	return layout(cfg, meta, synblog.WebsiteJsonLD(cfg), func(w *htmlWriter) {
		if len(tags) > 0 {
			w.raw(`<nav class="tags">`)
			for _, t := range tags {
				class := "tag"
				if strings.EqualFold(t, activeTag) {
					class = "tag active"
				}
				w.raw(`<a class="`, class, `" href="/?tag=`)
				w.text(url.QueryEscape(t))
				w.raw(`">`)
				w.text(t)
				w.raw(`</a> `)
			}
			w.raw(`</nav>`)
		}
		if len(posts) == 0 {
			w.raw(`<p>No posts yet.</p>`)
			return
		}
		w.raw(`<ul class="posts">`)
		for _, p := range posts {
			w.raw(`<li><a href="`, p.Link(), `">`)
			w.text(p.Title)
			w.raw(`</a> <time>`)
			w.text(p.PostedString())
			w.raw(`</time><p>`)
			w.text(p.Summary)
			w.raw(`</p></li>`)
		}
		w.raw(`</ul>`)
	})
}

// PostPage renders a full post. Element markup is written as produced by
// the syn package, without escaping.
func PostPage(post synblog.Post, related []synblog.Post, cfg synblog.SiteConfig) templ.Component {
	meta := synblog.PageMeta{
		Title:       post.Title + " | " + cfg.Name,
		Description: post.Summary,
		URL:         synblog.BuildURL(cfg.URL, "blog", post.Slug),
		OGType:      "article",
	}
	return layout(cfg, meta, synblog.BlogPostingJsonLD(post, cfg), func(w *htmlWriter) {
		w.raw(`<article><h1>`)
		w.text(post.Title)
		w.raw(`</h1><time>`)
		w.text(post.PostedString())
		w.raw(`</time>`)
		if tags := post.VisibleTags(); len(tags) > 0 {
			w.raw(` <span class="tags">`)
			w.text(synblog.JoinTags(tags))
			w.raw(`</span>`)
		}
		w.component(syn.Component(post.Document))
		w.raw(`<p class="source"><a href="`, post.Link(), `source/">source</a></p></article>`)
		if len(related) > 0 {
			w.raw(`<aside><h2>Related</h2><ul>`)
			for _, p := range related {
				w.raw(`<li><a href="`, p.Link(), `">`)
				w.text(p.Title)
				w.raw(`</a></li>`)
			}
			w.raw(`</ul></aside>`)
		}
	})
}

// AdminLogin is the password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return adminLayout("Login", func(w *htmlWriter) {
		if showError {
			w.raw(`<p class="error">Wrong password.</p>`)
		}
		w.raw(`<form method="post" action="/admin/login/">`)
		w.hidden("_csrf", csrfToken)
		w.raw(`<input type="password" name="password" autofocus><button>Log in</button></form>`)
	})
}

// AdminDashboard lists every post and offers a form for a new one.
func AdminDashboard(posts []synblog.Post, message string, csrfToken string) templ.Component {
	return adminLayout("Dashboard", func(w *htmlWriter) {
		if message != "" {
			w.raw(`<p class="message">`)
			w.text(message)
			w.raw(`</p>`)
		}
		w.raw(`<p><a href="/admin/images/">Images</a></p>`)
		w.raw(`<form method="post" action="/admin/logout/">`)
		w.hidden("_csrf", csrfToken)
		w.raw(`<button>Log out</button></form>`)
		w.raw(`<table class="posts">`)
		for _, p := range posts {
			w.raw(`<tr><td><a href="/admin/post/`, synblog.PathEscape(p.Slug), `/">`)
			w.text(p.Title)
			w.raw(`</a></td><td>`)
			if !p.Published {
				w.raw(`draft`)
			}
			w.raw(`</td><td><form method="post" action="/admin/post/`, synblog.PathEscape(p.Slug), `/">`)
			w.hidden("_csrf", csrfToken)
			w.hidden("_method", "DELETE")
			w.raw(`<button>Delete</button></form></td></tr>`)
		}
		w.raw(`</table><h2>New post</h2>`)
		w.component(AdminForm(synblog.Post{Published: true}, csrfToken))
	})
}

// AdminForm edits one post. The body field holds element lines separated
// by blank lines.
func AdminForm(post synblog.Post, csrfToken string) templ.Component {
	doc := post.Document
	if doc == nil {
		doc = &syn.Document{}
	}
	return component(func(w *htmlWriter) {
		w.raw(`<form method="post" action="/admin/save/" class="post-form">`)
		w.hidden("_csrf", csrfToken)
		field := func(label, name, value string) {
			w.raw(`<label>`, label, ` <input name="`, name, `" value="`)
			w.text(value)
			w.raw(`"></label>`)
		}
		field("Slug", "slug", post.Slug)
		field("Title", "title", doc.Title)
		field("Tags", "tags", strings.Join(synblog.FilterEmpty(doc.Tags), ","))
		posted := ""
		if doc.Posted != 0 {
			posted = strconv.FormatUint(doc.Posted, 10)
		}
		field("Posted", "posted", posted)
		field("Summary", "summary", doc.Summary)
		w.raw(`<label>Body <textarea name="body" rows="20">`)
		w.text(doc.Body())
		w.raw(`</textarea></label><label><input type="checkbox" name="published" value="1"`)
		if post.Published {
			w.raw(` checked`)
		}
		w.raw(`> Published</label><button>Save</button></form>`)
	})
}

// AdminImages lists uploads with the line that embeds each one.
func AdminImages(images []synblog.Image, message string, csrfToken string) templ.Component {
	return adminLayout("Images", func(w *htmlWriter) {
		if message != "" {
			w.raw(`<p class="message">`)
			w.text(message)
			w.raw(`</p>`)
		}
		w.raw(`<p><a href="/admin/">Dashboard</a></p>`)
		w.raw(`<form method="post" action="/admin/images/upload/" enctype="multipart/form-data">`)
		w.hidden("_csrf", csrfToken)
		w.raw(`<input type="file" name="image" accept="image/*"><input name="alt" placeholder="alt text">`)
		w.raw(`<input name="style" placeholder="width:100%"><button>Upload</button></form><ul class="images">`)
		for _, img := range images {
			w.raw(`<li><img src="`, img.URL(), `" width="160"><code>`)
			w.text(img.Element(img.OriginalName, "width:100%").Line())
			w.raw(`</code> `, strconv.Itoa(img.Width), `x`, strconv.Itoa(img.Height))
			w.raw(`<form method="post" action="/admin/images/`, synblog.PathEscape(img.Filename), `/">`)
			w.hidden("_csrf", csrfToken)
			w.hidden("_method", "DELETE")
			w.raw(`<button>Delete</button></form></li>`)
		}
		w.raw(`</ul>`)
	})
}

// NotFound is the 404 page.
func NotFound() templ.Component {
	return plainLayout("Home", "Not found", func(w *htmlWriter) {
		w.raw(`<h1>Not found</h1><p><a href="/">Back to the blog</a></p>`)
	})
}

// ServerError is the 5xx page.
func ServerError() templ.Component {
	return plainLayout("Home", "Error", func(w *htmlWriter) {
		w.raw(`<h1>Something went wrong</h1><p><a href="/">Back to the blog</a></p>`)
	})
}

package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/synblog"
)

func layout(cfg synblog.SiteConfig, meta synblog.PageMeta, jsonLD string, body func(w *htmlWriter)) templ.Component {
	return component(func(w *htmlWriter) {
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		w.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw(`<title>`)
		w.text(meta.Title)
		w.raw(`</title>`)
		if meta.Description != "" {
			w.raw(`<meta name="description" content="`)
			w.text(meta.Description)
			w.raw(`"><meta property="og:description" content="`)
			w.text(meta.Description)
			w.raw(`">`)
		}
		if meta.URL != "" {
			w.raw(`<link rel="canonical" href="`)
			w.text(meta.URL)
			w.raw(`"><meta property="og:url" content="`)
			w.text(meta.URL)
			w.raw(`">`)
		}
		w.raw(`<meta property="og:title" content="`)
		w.text(meta.Title)
		w.raw(`"><meta property="og:type" content="`)
		w.text(meta.OGType)
		w.raw(`">`)
		w.raw(`<link rel="stylesheet" href="/public/synblog.css">`)
		w.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml">`)
		if jsonLD != "" {
			w.raw(`<script type="application/ld+json">`, jsonLD, `</script>`)
		}
		w.raw(`</head><body><header><a href="/">`)
		w.text(cfg.Name)
		w.raw(`</a></header><main>`)
		body(w)
		w.raw(`</main></body></html>`)
	})
}

// plainLayout is used for pages that have no site config at hand.
func plainLayout(header, title string, body func(w *htmlWriter)) templ.Component {
	return layout(synblog.SiteConfig{Name: header}, synblog.PageMeta{Title: title, OGType: "website"}, "", body)
}

func adminLayout(title string, body func(w *htmlWriter)) templ.Component {
	return plainLayout("Admin", title, body)
}

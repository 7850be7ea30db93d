package synblog

import "embed"

// EmbeddedAssets contains static assets shipped with the framework:
// synblog.css, styling for the classes syn elements render with.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

package blog

import "embed"

// EmbeddedAssets holds the default stylesheet served at /public/styles.css
// when the static directory does not provide one.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

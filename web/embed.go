// Package web embeds the single-page UI.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

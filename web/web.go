// Package web embeds the browser widget served alongside the API.
package web

import "embed"

//go:embed public
var Assets embed.FS

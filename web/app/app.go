// Package app embeds the page templates and stylesheet.
package app

import "embed"

//go:embed templates static
var FS embed.FS

// Package web holds the HTML templates and static assets served by the
// application.
package web

import "embed"

//go:embed templates static
var FS embed.FS

// Package templates embeds the bundled report templates.
//
// Usage:
//
//	fs := templates.FS
//	data, _ := fs.ReadFile("report/tailwind.html.tmpl")
package templates

import "embed"

// FS contains the vulnerability dashboard templates, one per theme, named
// report/<theme>.html.tmpl.
//
//go:embed report/*.tmpl
var FS embed.FS

// Package banksim provides embedded UI assets for production builds.
package banksim

import "embed"

// In dev mode templates and static files are read from disk for hot reloading;
// otherwise they are served from these embedded filesystems.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS

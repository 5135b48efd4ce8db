// Package inventoryweb provides the embedded templates and static files served by the web front end.
package inventoryweb

import "embed"

// In dev mode (IsDev=true) templates and static files are read from disk so edits show up without a rebuild.
// Otherwise they are served from these embedded filesystems.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS

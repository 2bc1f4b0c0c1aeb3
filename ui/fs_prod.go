//go:build !debug

package ui

import (
	"embed"
	"io/fs"
)

//go:embed dist
var distFS embed.FS

// DistFS returns the embedded portal shell (production: baked into the
// binary so the server stays self-contained).
func DistFS() fs.FS {
	return distFS
}

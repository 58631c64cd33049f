// Package web holds the embedded page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the static file system.
func StaticFS() (fs.FS, error) {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-filesystem: %w", err)
	}
	return sub, nil
}

// TemplatesFS returns the templates file system.
func TemplatesFS() (fs.FS, error) {
	sub, err := fs.Sub(content, "templates")
	if err != nil {
		return nil, fmt.Errorf("templates sub-filesystem: %w", err)
	}
	return sub, nil
}

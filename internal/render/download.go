// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"regexp"
)

// filenamePattern matches every character not allowed in a download
// filename.
var filenamePattern = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with an
// underscore.
func SanitizeFilename(name string) string {
	return filenamePattern.ReplaceAllString(name, "_")
}

// DataLink returns an HTML anchor that downloads content as filename via a
// base64 data URI, so exports need no extra server round trip. The label is
// escaped; the filename is sanitized.
func DataLink(content []byte, filename, mime, label string) template.HTML {
	href := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(content))
	anchor := fmt.Sprintf(
		`<a href="%s" download="%s" style="text-decoration:none; background:#00c3ff; color:#001218; padding:8px 12px; border-radius:6px; font-weight:600;">%s</a>`,
		href, SanitizeFilename(filename), template.HTMLEscapeString(label))
	return template.HTML(anchor)
}

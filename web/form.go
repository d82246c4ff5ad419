// Package web embeds the static submission form served at the site root.
package web

import _ "embed"

//go:embed form.html
var formHTML []byte

// Form returns the submission page markup.
func Form() []byte {
	return formHTML
}

// Package web carries the embedded browser assets for the chat interface.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte

// Package web carries the embedded browser form so the server ships as a
// single binary.
package web

import _ "embed"

//go:embed static/index.html
var Index []byte

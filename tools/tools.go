//go:build tools
// +build tools

// Package tools pins code generators used by go:generate directives so they resolve
// through go.mod instead of a globally installed binary.
package tools

import (
	// mockgen produces the gomock doubles under internal/mocks.
	_ "go.uber.org/mock/mockgen"
)

// Other development tools (install via `go install`):
//
// Air - Live reload for Go apps
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air

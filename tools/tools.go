//go:build tools

package tools

// This file tracks tool dependencies for reproducible builds.
// Run `go mod tidy` after adding/removing tools here.

import (
	_ "github.com/swaggo/swag/cmd/swag"
)

// Package mocks provides hand-written in-memory mock implementations of the
// driven ports for use in service and handler tests.
package mocks

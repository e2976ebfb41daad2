// Package router binds the HTTP paths to their handlers. It only wires
// routes onto gin groups; the handler implementations live in
// pkg/internal/handle.
package router

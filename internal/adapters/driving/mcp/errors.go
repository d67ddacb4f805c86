// Package mcp provides an MCP (Model Context Protocol) server adapter for treatyrag.
// It lets AI assistants retrieve treaties, request briefings and run evaluations.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// errServiceUnavailable is returned by tools whose service was not wired.
var errServiceUnavailable = errors.New("mcp: service not available")

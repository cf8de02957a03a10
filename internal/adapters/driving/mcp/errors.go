// Package mcp provides an MCP (Model Context Protocol) server adapter for sercha-discord.
// It lets AI assistants search indexed Discord messages.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversation transcripts to disk on request.
//
// Supported formats are Markdown, JSON and a standalone HTML page. Exports
// are write-only; nothing is ever read back.
//
//	t := export.NewTranscript(modelID, state.Messages)
//	exp, _ := export.ForFormat("md", opts)
//	path, err := export.ExportToFile(t, exp, opts)
package export

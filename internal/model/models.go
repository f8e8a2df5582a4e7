// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo describes a known generation model for display and for config
// warnings.
type ModelInfo struct {
	// ID is the model identifier used in API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// MaxTokens is the input context window size
	MaxTokens int `json:"max_tokens"`

	Description string `json:"description"`
}

// Models is the registry of well-known Gemini models. Unknown model IDs are
// still accepted; they are passed through to the API as-is.
var Models = map[string]ModelInfo{
	"gemini-1.5-flash": {
		ID:          "gemini-1.5-flash",
		Name:        "Gemini 1.5 Flash",
		MaxTokens:   1048576,
		Description: "Fast and versatile",
	},
	"gemini-1.5-pro": {
		ID:          "gemini-1.5-pro",
		Name:        "Gemini 1.5 Pro",
		MaxTokens:   2097152,
		Description: "Complex reasoning over long inputs",
	},
	"gemini-2.0-flash": {
		ID:          "gemini-2.0-flash",
		Name:        "Gemini 2.0 Flash",
		MaxTokens:   1048576,
		Description: "Next generation speed",
	},
	"gemini-pro": {
		ID:          "gemini-pro",
		Name:        "Gemini Pro",
		MaxTokens:   32760,
		Description: "Original text model",
	},
}

// ContextString returns a compact context-window label such as "1M" or "32K".
func (m ModelInfo) ContextString() string {
	switch {
	case m.MaxTokens >= 1000000:
		return fmt.Sprintf("%dM", m.MaxTokens/1000000)
	case m.MaxTokens >= 1000:
		return fmt.Sprintf("%dK", m.MaxTokens/1000)
	default:
		return fmt.Sprintf("%d", m.MaxTokens)
	}
}

// GetModelInfo looks a model up by ID, ignoring case and a "models/" prefix.
func GetModelInfo(id string) (ModelInfo, bool) {
	id = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(id), "models/"))
	info, ok := Models[id]
	return info, ok
}

// DisplayName returns the friendly name of a model, or the ID itself when
// the model is not in the registry.
func DisplayName(id string) string {
	if info, ok := GetModelInfo(id); ok {
		return info.Name
	}
	return id
}

// Label returns the display name followed by the context window, such as
// "Gemini 1.5 Flash 1M". Unknown IDs are returned unchanged.
func Label(id string) string {
	info, ok := GetModelInfo(id)
	if !ok {
		return id
	}
	return DisplayName(id) + " " + info.ContextString()
}

// Describe returns Label plus the model description.
func Describe(id string) string {
	info, ok := GetModelInfo(id)
	if !ok {
		return id
	}
	return fmt.Sprintf("%s (%s context): %s", info.Name, info.ContextString(), info.Description)
}

// ModelIDs returns the registry IDs in sorted order.
func ModelIDs() []string {
	ids := make([]string, 0, len(Models))
	for id := range Models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

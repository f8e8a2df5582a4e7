// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini talks to the Gemini generateContent API.
//
// Two backends implement Generator: Client posts JSON to the REST endpoint
// with the key in the query string, and SDKClient goes through the official
// generative-ai-go SDK. Both send the whole conversation on every call, take
// no streaming path and never retry.
//
// # Usage
//
//	backend, err := gemini.New(ctx, cfg.Gemini, logger)
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//
//	resp, err := backend.Generate(ctx, history)
//	if text, ok := resp.Text(); ok {
//	    fmt.Println(text)
//	}
package gemini

// Copyright (c) 2025 The Maverick-Ai Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
)

// Confirm asks a yes/no question on in. Only "y" and "yes" confirm; any
// other answer, EOF or abort declines.
func Confirm(in LineReader, question string) bool {
	answer, err := in.Prompt(question + " [y/N] ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

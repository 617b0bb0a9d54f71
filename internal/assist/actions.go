// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import "strings"

// =============================================================================
// QUICK ACTIONS
// =============================================================================

// Action is a one-tap menu entry carrying a hidden prompt. The user
// never sees the prompt text, only the action label.
type Action int

const (
	ActionNone Action = iota
	ActionPolish
	ActionExpand
	ActionSummarize
	ActionContinue
	ActionTranslate
)

// Label returns the menu label for the action.
func (a Action) Label() string {
	switch a {
	case ActionPolish:
		return "Polish"
	case ActionExpand:
		return "Expand"
	case ActionSummarize:
		return "Summarize"
	case ActionContinue:
		return "Continue writing"
	case ActionTranslate:
		return "Translate"
	default:
		return ""
	}
}

// Prompt returns the hidden prompt sent to the model.
func (a Action) Prompt() string {
	switch a {
	case ActionPolish:
		return "Polish the following text. Improve clarity and flow while preserving the meaning and tone. Reply with the revised text only."
	case ActionExpand:
		return "Expand the following text with more detail and supporting points. Keep the original voice. Reply with the expanded text only."
	case ActionSummarize:
		return "Summarize the following text concisely. Reply with the summary only."
	case ActionContinue:
		return "Continue writing from where the following text leaves off, matching its style. Reply with the continuation only."
	case ActionTranslate:
		return "Translate the following text to English. Reply with the translation only."
	default:
		return ""
	}
}

// Actions lists the menu entries in display order.
func Actions() []Action {
	return []Action{ActionPolish, ActionExpand, ActionSummarize, ActionContinue, ActionTranslate}
}

// =============================================================================
// TRANSLATION DETECTION
// =============================================================================

// translationKeywords flag a prompt as a language-conversion request.
// Diffing original prose against its translation is noise, so the
// compare affordance is hidden for these. Advisory only.
var translationKeywords = []string{"翻译", "translate", "中文", "english"}

// isTranslationPrompt reports whether the prompt looks like a
// translation request.
func isTranslationPrompt(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, kw := range translationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(80)

	out := r.Render("# Title\n\nSome **bold** prose.")
	if out == "" {
		t.Fatal("rendered output is empty")
	}
	if !strings.Contains(out, "Title") {
		t.Errorf("heading text missing from output:\n%s", out)
	}
	if !strings.Contains(out, "bold") {
		t.Errorf("body text missing from output:\n%s", out)
	}
}

func TestRenderer_DegradedFallback(t *testing.T) {
	r := &Renderer{term: nil}
	if got := r.Render("raw text"); got != "raw text" {
		t.Errorf("fallback = %q", got)
	}
}

func TestConverter_ToRichText(t *testing.T) {
	c := NewConverter()

	out, err := c.ToRichText("Some **bold** and *italic* prose.")
	if err != nil {
		t.Fatalf("ToRichText: %v", err)
	}
	if strings.Contains(out, "**") || strings.Contains(out, "\x1b[") {
		t.Errorf("markup or escape codes survived: %q", out)
	}
	if !strings.Contains(out, "bold") || !strings.Contains(out, "italic") {
		t.Errorf("text content lost: %q", out)
	}
}

func TestConverter_ToRichTextPlainPassesThrough(t *testing.T) {
	c := NewConverter()

	out, err := c.ToRichText("Just a plain sentence.")
	if err != nil {
		t.Fatalf("ToRichText: %v", err)
	}
	if !strings.Contains(out, "Just a plain sentence.") {
		t.Errorf("plain text mangled: %q", out)
	}
}

func TestToMarkdown(t *testing.T) {
	if got := ToMarkdown("some text\n\n"); got != "some text" {
		t.Errorf("ToMarkdown = %q", got)
	}
}

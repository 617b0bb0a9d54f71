// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sse

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// EVENTS
// =============================================================================

// EventType discriminates the semantic events a stream produces.
type EventType int

const (
	// EventContentDelta carries an incremental content fragment.
	EventContentDelta EventType = iota
	// EventDone signals the stream completed. Terminal for the session.
	EventDone
	// EventError carries a transport-level error message. The parser never
	// emits it; the transport layer does, so consumers see one union.
	EventError
)

// Event is a single semantic event decoded from the stream.
type Event struct {
	Type    EventType
	Text    string // content fragment for EventContentDelta
	Message string // error message for EventError
}

// ContentDelta creates a content fragment event.
func ContentDelta(text string) Event {
	return Event{Type: EventContentDelta, Text: text}
}

// Done creates a completion event.
func Done() Event {
	return Event{Type: EventDone}
}

// Error creates a transport error event.
func Error(message string) Event {
	return Event{Type: EventError, Message: message}
}

// =============================================================================
// FRAME SHAPES
// =============================================================================

// doneSentinel terminates an OpenAI-style stream.
const doneSentinel = "[DONE]"

// chunkFrame is the structured completion frame shape.
type chunkFrame struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// frameResult is the two-variant outcome of decoding one payload:
// either a structured completion frame or raw literal text. Failure to
// parse JSON is an ordinary branch, not an exception path.
type frameResult struct {
	structured bool
	frame      chunkFrame
	raw        string
}

// decodeFrame classifies a payload. Only payloads that look like and
// decode as JSON objects count as structured; everything else is raw text.
func decodeFrame(payload string) frameResult {
	trimmed := strings.TrimSpace(payload)
	if strings.HasPrefix(trimmed, "{") {
		var frame chunkFrame
		if err := json.Unmarshal([]byte(trimmed), &frame); err == nil {
			return frameResult{structured: true, frame: frame}
		}
	}
	return frameResult{raw: payload}
}

// =============================================================================
// PARSER
// =============================================================================

// Parser is an incremental SSE decoder. Feed it raw transport chunks in
// arrival order; it emits events in the same order. One Parser serves one
// session; use Reset before reusing it.
type Parser struct {
	carry     string // partial line held across chunk boundaries
	lastBlank bool   // previous raw payload was blank
	done      bool   // Done emitted; all further input is discarded
}

// NewParser creates a parser for a fresh session.
func NewParser() *Parser {
	return &Parser{}
}

// Reset returns the parser to its initial state for a new session.
func (p *Parser) Reset() {
	p.carry = ""
	p.lastBlank = false
	p.done = false
}

// Finished reports whether the stream completed.
func (p *Parser) Finished() bool {
	return p.done
}

// Feed consumes one raw chunk and returns the decoded events, in order.
// A line not yet terminated by a newline is held for the next chunk, so
// splitting the input at arbitrary byte boundaries never changes the
// resulting event sequence. After a Done event nothing further is emitted.
func (p *Parser) Feed(chunk string) []Event {
	if p.done {
		return nil
	}

	buf := p.carry + chunk
	lines := strings.Split(buf, "\n")
	p.carry = lines[len(lines)-1]
	lines = lines[:len(lines)-1]

	var events []Event
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")

		// Only data lines are significant; event/id/retry fields and the
		// blank event separators carry nothing for us.
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		payload = strings.TrimPrefix(payload, " ")

		if strings.TrimSpace(payload) == doneSentinel {
			events = append(events, Done())
			p.done = true
			break
		}

		result := decodeFrame(payload)
		if result.structured {
			if ev, terminal := p.structuredEvents(result.frame); len(ev) > 0 {
				events = append(events, ev...)
				if terminal {
					p.done = true
				}
			}
			if p.done {
				break
			}
			continue
		}

		if ev, emit := p.rawEvent(result.raw); emit {
			events = append(events, ev)
		}
	}

	if p.done {
		// Terminal: anything still buffered belongs after Done and is dropped.
		p.carry = ""
	}
	return events
}

// structuredEvents maps a structured frame to events. A frame can carry
// both a fragment and a finish reason; the fragment is surfaced first.
func (p *Parser) structuredEvents(frame chunkFrame) ([]Event, bool) {
	if len(frame.Choices) == 0 {
		return nil, false
	}

	var events []Event
	choice := frame.Choices[0]
	if choice.Delta.Content != "" {
		events = append(events, ContentDelta(choice.Delta.Content))
		p.lastBlank = false
	}
	if choice.FinishReason == "stop" {
		events = append(events, Done())
		return events, true
	}
	return events, false
}

// rawEvent handles the non-JSON fallback path. Consecutive blank payloads
// collapse into one newline so a chatty transport cannot pile up empty
// lines; non-blank payloads pass through verbatim.
func (p *Parser) rawEvent(payload string) (Event, bool) {
	if strings.TrimSpace(payload) == "" {
		if p.lastBlank {
			return Event{}, false
		}
		p.lastBlank = true
		return ContentDelta("\n"), true
	}
	p.lastBlank = false
	return ContentDelta(payload), true
}

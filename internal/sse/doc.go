// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sse parses Server-Sent-Events chat-completion streams into
// semantic events.
//
// The transport guarantees delivery order but not frame alignment: a single
// "data: " frame may arrive split across chunk boundaries, and one chunk may
// carry many frames. The Parser reassembles lines across chunks, decodes
// structured completion frames, and falls back to treating non-JSON payloads
// as literal text, so the same consumer works against both OpenAI-style
// streams and plain-text event streams.
package sse

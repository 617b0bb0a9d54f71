// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud implements the chat-completions transport for AI
// generation: request construction, streaming over Server-Sent Events,
// and the error taxonomy (transport errors, structured API errors, and
// rate-limit responses with quota information).
package cloud

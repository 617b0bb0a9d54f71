// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assist is the top-level state machine binding the generation
// session, the selection highlighter, and the diff controller to user
// intents: open the menu, submit a prompt, regenerate, abort, insert,
// replace, compare. It owns the one-active-session rule and the
// outside-click teardown, and keeps range bookkeeping honest across
// document mutations.
package assist

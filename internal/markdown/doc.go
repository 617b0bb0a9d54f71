// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown converts model output for its two destinations: the
// response panel, which wants styled terminal rendering, and the
// document, which wants clean prose with the markup resolved away.
package markdown

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff_test

import (
	"fmt"

	"github.com/jeranaias/inkwell/internal/diff"
)

func ExampleCompute() {
	original := "The cat sat.\nIt was grey.\nThe end."
	rewritten := "The cat sat.\nIts coat was a soft grey.\nThe end.\nReally."

	d := diff.Compute(original, rewritten)
	fmt.Println(d.Summary())

	// Output:
	// +2 -1
}

func ExampleFormatUnified() {
	d := diff.Compute("line1\nline2\nline3", "line1\nmodified\nline3")

	fmt.Println(diff.FormatUnified(d, "original", "suggested"))

	// Output:
	// --- original
	// +++ suggested
	// @@ -1,3 +1,3 @@
	//  line1
	// -line2
	// +modified
	//  line3
}

func ExampleLineType_Prefix() {
	fmt.Println("Added:", diff.LineAdded.Prefix())
	fmt.Println("Removed:", diff.LineRemoved.Prefix())
	fmt.Println("Context:", diff.LineContext.Prefix())

	// Output:
	// Added: +
	// Removed: -
	// Context:
}

func ExampleDiff_Identical() {
	d := diff.Compute("same text", "same text")
	fmt.Println(d.Identical())
	fmt.Println(d.Summary())

	// Output:
	// true
	// No changes
}

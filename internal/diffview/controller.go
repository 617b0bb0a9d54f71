// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diffview

import (
	"errors"
	"fmt"

	"github.com/jeranaias/inkwell/internal/editor"
)

// =============================================================================
// STATE
// =============================================================================

// State is the controller's lifecycle position.
type State int

const (
	// StateClosed means no comparison is active.
	StateClosed State = iota

	// StateOpen means a comparison is showing and awaiting a decision.
	StateOpen

	// StateCommitting means an accept is writing into the document.
	// No user action is valid until the write finishes.
	StateCommitting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateCommitting:
		return "committing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrNotOpen is returned by decisions taken with no active comparison.
	ErrNotOpen = errors.New("diff view is not open")

	// ErrAlreadyOpen is returned by Open while a comparison is active.
	ErrAlreadyOpen = errors.New("diff view is already open")

	// ErrInvalidRange is returned when the replacement range does not fit
	// the document.
	ErrInvalidRange = errors.New("replacement range out of document bounds")

	// ErrDisposed is returned by Open on a controller that has been torn
	// down.
	ErrDisposed = errors.New("diff controller disposed")

	// ErrDocumentChanged is returned by accepts when the document was
	// edited while the comparison was open. The captured replacement range
	// no longer points at the right text, so the only safe exit is Cancel.
	ErrDocumentChanged = errors.New("document changed while diff was open")
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller drives one comparison at a time against a document. The
// replacement range is captured at Open and never re-read from the
// document: the selection may have moved or collapsed by the time the
// user decides.
type Controller struct {
	doc         editor.Document
	highlighter *editor.Highlighter
	view        View

	state            State
	replacementRange editor.Range
	docLenAtOpen     int
}

// NewController creates a closed controller. The highlighter may be nil.
func NewController(doc editor.Document, highlighter *editor.Highlighter, view View) *Controller {
	return &Controller{
		doc:         doc,
		highlighter: highlighter,
		view:        view,
	}
}

// State returns the current lifecycle position.
func (c *Controller) State() State {
	return c.state
}

// ReplacementRange returns the range captured at Open. Zero when closed.
func (c *Controller) ReplacementRange() editor.Range {
	return c.replacementRange
}

// Open starts a comparison of original against suggested, remembering
// where the accepted text will land. The range is captured by value at
// this moment; later selection changes do not move it.
func (c *Controller) Open(original, suggested string, replacement editor.Range) error {
	if c.view == nil {
		return ErrDisposed
	}
	if c.state != StateClosed {
		return ErrAlreadyOpen
	}
	if !replacement.Valid() || replacement.End() > c.doc.Length() {
		return ErrInvalidRange
	}

	c.view.LoadPair(original, suggested)
	c.replacementRange = replacement
	c.docLenAtOpen = c.doc.Length()
	c.state = StateOpen
	return nil
}

// AcceptReplace substitutes the suggested text (with any user edits from
// the pane) for the original range, then closes. If the document was
// edited while the comparison was open the captured range is stale and
// the accept is refused; Cancel is the remaining exit.
func (c *Controller) AcceptReplace() error {
	if err := c.checkAccept(); err != nil {
		return err
	}

	c.state = StateCommitting
	text := c.view.ModifiedText()

	c.forceClearHighlight()
	c.doc.DeleteText(c.replacementRange)
	c.doc.InsertRichContent(c.replacementRange.Index, text)

	c.close()
	return nil
}

// AcceptAppend inserts the suggested text on a new line after the
// original range, leaving the original in place, then closes. The same
// staleness guard as AcceptReplace applies.
func (c *Controller) AcceptAppend() error {
	if err := c.checkAccept(); err != nil {
		return err
	}

	c.state = StateCommitting
	text := c.view.ModifiedText()

	c.forceClearHighlight()
	c.doc.InsertRichContent(c.replacementRange.End(), "\n"+text)

	c.close()
	return nil
}

// Cancel discards the comparison without touching the document. Valid
// from any state; on a closed controller it is a no-op.
func (c *Controller) Cancel() {
	if c.state == StateClosed {
		return
	}
	c.forceClearHighlight()
	c.close()
}

// Dispose tears the controller down. Idempotent: the view is released
// exactly once, and further calls do nothing. An open comparison is
// discarded as if cancelled.
func (c *Controller) Dispose() {
	if c.view != nil {
		c.view.Dispose()
		c.view = nil
	}
	c.state = StateClosed
	c.replacementRange = editor.Range{}
}

// checkAccept validates that an accept may run right now.
func (c *Controller) checkAccept() error {
	if c.state != StateOpen {
		return ErrNotOpen
	}
	if c.doc.Length() != c.docLenAtOpen {
		return ErrDocumentChanged
	}
	return nil
}

// close resets to the closed state, releasing the view's pair but
// keeping the view for the next comparison.
func (c *Controller) close() {
	if c.view != nil {
		c.view.Dispose()
	}
	c.replacementRange = editor.Range{}
	c.state = StateClosed
}

func (c *Controller) forceClearHighlight() {
	if c.highlighter == nil {
		return
	}
	if active := c.highlighter.Active(); active != nil {
		c.highlighter.ForceClear(*active)
	}
}

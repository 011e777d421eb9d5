package quiz

import (
	"fmt"

	"geoquiz-service/internal/domain"
)

// CursorState is the caller-owned snapshot of a cursor. Shells persist it
// across recreation and hand it back through RestoreCursor.
type CursorState struct {
	Index int `json:"index"`
}

// Cursor walks a QuestionBank circularly. 0 <= index < bank.Size() holds
// after every operation.
type Cursor struct {
	bank  *QuestionBank
	index int
}

// NewCursor starts at the first question.
func NewCursor(bank *QuestionBank) *Cursor {
	return &Cursor{bank: bank}
}

// RestoreCursor resumes a cursor from a saved state.
func RestoreCursor(bank *QuestionBank, state CursorState) (*Cursor, error) {
	if state.Index < 0 || state.Index >= bank.Size() {
		return nil, fmt.Errorf("restore cursor: %w: %d not in [0,%d)", domain.ErrIndexOutOfRange, state.Index, bank.Size())
	}
	return &Cursor{bank: bank, index: state.Index}, nil
}

// Current returns the index of the displayed question.
func (c *Cursor) Current() int { return c.index }

// Advance moves to the next question, wrapping from the last to the first.
func (c *Cursor) Advance() {
	c.index = (c.index + 1) % c.bank.Size()
}

// Retreat moves to the previous question, wrapping from the first to the last.
func (c *Cursor) Retreat() {
	if c.index == 0 {
		c.index = c.bank.Size() - 1
		return
	}
	c.index--
}

// Question returns the question under the cursor.
func (c *Cursor) Question() domain.Question {
	q, err := c.bank.Get(c.index)
	if err != nil {
		// Unreachable while the index invariant holds.
		panic(err)
	}
	return q
}

func (c *Cursor) Bank() *QuestionBank { return c.bank }

func (c *Cursor) State() CursorState {
	return CursorState{Index: c.index}
}

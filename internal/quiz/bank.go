// Package quiz holds the navigation core: an immutable question bank, a
// wrapping cursor over it, and the answer evaluator.
package quiz

import (
	"fmt"
	"strings"

	"geoquiz-service/internal/domain"
)

// QuestionBank is a fixed, ordered, non-empty list of questions.
type QuestionBank struct {
	id        string
	title     string
	questions []domain.Question
}

// NewQuestionBank copies questions into an immutable bank.
func NewQuestionBank(id string, questions []domain.Question) (*QuestionBank, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("bank %q: %w", id, domain.ErrEmptyBank)
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("bank %q question %d: %w: blank text", id, i, domain.ErrInvalidQuestion)
		}
	}
	owned := make([]domain.Question, len(questions))
	copy(owned, questions)
	return &QuestionBank{id: id, questions: owned}, nil
}

// FromBank builds a QuestionBank from its stored form.
func FromBank(b domain.Bank) (*QuestionBank, error) {
	bank, err := NewQuestionBank(b.ID, b.Questions)
	if err != nil {
		return nil, err
	}
	bank.title = b.Title
	return bank, nil
}

func (b *QuestionBank) ID() string { return b.id }
func (b *QuestionBank) Title() string { return b.title }

// Size returns the fixed question count; always at least 1.
func (b *QuestionBank) Size() int { return len(b.questions) }

// Get returns the question at index. Reading outside [0, Size) is a caller bug
// and is reported as domain.ErrIndexOutOfRange.
func (b *QuestionBank) Get(index int) (domain.Question, error) {
	if index < 0 || index >= len(b.questions) {
		return domain.Question{}, fmt.Errorf("%w: %d not in [0,%d)", domain.ErrIndexOutOfRange, index, len(b.questions))
	}
	return b.questions[index], nil
}

// Questions returns a copy of the bank's contents.
func (b *QuestionBank) Questions() []domain.Question {
	out := make([]domain.Question, len(b.questions))
	copy(out, b.questions)
	return out
}

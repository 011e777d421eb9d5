package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/quiz"
)

func TestSaveAndLoadBank(t *testing.T) {
	ctx := context.Background()
	loader, err := Open(filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer loader.Close()

	if err := loader.SaveBank(ctx, quiz.GeographyBank()); err != nil {
		t.Fatalf("save: %v", err)
	}

	bank, err := loader.LoadBank(ctx, "geography")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := quiz.GeographyBank().Questions
	if len(bank.Questions) != len(want) {
		t.Fatalf("expected %d questions, got %d", len(want), len(bank.Questions))
	}
	for i := range want {
		if bank.Questions[i] != want[i] {
			t.Fatalf("question %d: got %+v want %+v", i, bank.Questions[i], want[i])
		}
	}

	// Saving again replaces rather than appends.
	short := domain.Bank{ID: "geography", Questions: want[:2]}
	if err := loader.SaveBank(ctx, short); err != nil {
		t.Fatalf("resave: %v", err)
	}
	bank, _ = loader.LoadBank(ctx, "geography")
	if len(bank.Questions) != 2 {
		t.Fatalf("expected 2 questions after resave, got %d", len(bank.Questions))
	}
}

func TestLoadMissingBank(t *testing.T) {
	loader, err := Open(filepath.Join(t.TempDir(), "quiz.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer loader.Close()

	if _, err := loader.LoadBank(context.Background(), "nope"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

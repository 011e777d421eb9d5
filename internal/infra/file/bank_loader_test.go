package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/quiz"
)

const oceansYAML = `title: Oceans
questions:
  - text: The Pacific Ocean is larger than the Atlantic Ocean.
    answer: true
  - text: The Dead Sea is an ocean.
    answer: false
`

func TestLoadBank(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "oceans.yaml"), []byte(oceansYAML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	loader := NewBankLoader(dir)

	bank, err := loader.LoadBank(context.Background(), "oceans")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if bank.ID != "oceans" || bank.Title != "Oceans" || len(bank.Questions) != 2 {
		t.Fatalf("unexpected bank %+v", bank)
	}
	if bank.Questions[1].Answer {
		t.Fatalf("expected second answer false")
	}

	ids, err := loader.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 1 || ids[0] != "oceans" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestLoadBankNotFound(t *testing.T) {
	loader := NewBankLoader(t.TempDir())
	for _, id := range []string{"missing", "../etc/passwd", ""} {
		if _, err := loader.LoadBank(context.Background(), id); !errors.Is(err, domain.ErrBankNotFound) {
			t.Fatalf("LoadBank(%q): expected not found, got %v", id, err)
		}
	}
}

func TestReadBankRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("questions: 42\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadBank(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestShippedGeographyMatchesBuiltin(t *testing.T) {
	bank, err := NewBankLoader(filepath.Join("..", "..", "..", "banks")).LoadBank(context.Background(), quiz.GeographyBankID)
	if err != nil {
		t.Fatalf("load shipped bank: %v", err)
	}
	want := quiz.GeographyBank()
	if len(bank.Questions) != len(want.Questions) {
		t.Fatalf("expected %d questions, got %d", len(want.Questions), len(bank.Questions))
	}
	for i := range want.Questions {
		if bank.Questions[i] != want.Questions[i] {
			t.Fatalf("question %d differs: %+v vs %+v", i, bank.Questions[i], want.Questions[i])
		}
	}
}

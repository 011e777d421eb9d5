package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/quiz"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(quiz.GeographyBank())}
	repo := NewBankRepository(loader, time.Minute)

	bank, err := repo.GetBank(context.Background(), "geography")
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if bank.Size() != 6 {
		t.Fatalf("expected 6 questions, got %d", bank.Size())
	}
	if loader.count() != 1 {
		t.Fatalf("expected loader once, got %d", loader.count())
	}

	if _, err := repo.GetBank(context.Background(), "geography"); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.count() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.count())
	}

	repo.Invalidate("geography")
	if _, err := repo.GetBank(context.Background(), "geography"); err != nil {
		t.Fatalf("get bank 3: %v", err)
	}
	if loader.count() != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.count())
	}
}

func TestBankRepositoryExpires(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(quiz.GeographyBank())}
	repo := NewBankRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetBank(context.Background(), "geography")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetBank(context.Background(), "geography")
	if loader.count() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.count())
	}
}

func TestBankRepositoryRejectsInvalidBanks(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(domain.Bank{ID: "empty"}), time.Minute)

	if _, err := repo.GetBank(context.Background(), "empty"); !errors.Is(err, domain.ErrEmptyBank) {
		t.Fatalf("expected empty bank error, got %v", err)
	}
	if _, err := repo.GetBank(context.Background(), "missing"); !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type countingLoader struct {
	BankLoader
	mu    sync.Mutex
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.BankLoader.LoadBank(ctx, bankID)
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

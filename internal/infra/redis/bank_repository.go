package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/quiz"
)

// BankLoader fetches bank content from a backing store (file, Postgres, SQLite).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// BankRepository caches banks in Redis as JSON and falls back to a loader on miss.
// Banks are stored as: SET quiz:bank:{bankID} {json} EX ttl
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand

	// decoded holds the last bank built from each cached value so a hit whose
	// bytes are unchanged skips the JSON decode.
	decodedMu sync.Mutex
	decoded   map[string]decodedBank
}

type decodedBank struct {
	raw  string
	bank *quiz.QuestionBank
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client:  client,
		loader:  loader,
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		decoded: make(map[string]decodedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (*quiz.QuestionBank, error) {
	if bank, ok := r.cached(ctx, bankID); ok {
		return bank, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if bank, ok := r.cached(ctx, bankID); ok {
			return bank, nil
		}

		raw, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return nil, err
		}
		if raw.ID == "" {
			raw.ID = bankID
		}
		bank, err := quiz.FromBank(raw)
		if err != nil {
			return nil, err
		}

		if data, err := json.Marshal(raw); err == nil {
			// best-effort cache fill
			if r.client.Set(ctx, r.key(bankID), data, r.ttlWithJitter()).Err() == nil {
				r.remember(bankID, string(data), bank)
			}
		}
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*quiz.QuestionBank), nil
}

// Invalidate removes a cached bank, e.g. after the seed command rewrote it.
func (r *BankRepository) Invalidate(ctx context.Context, bankID string) error {
	r.decodedMu.Lock()
	delete(r.decoded, bankID)
	r.decodedMu.Unlock()
	return r.client.Del(ctx, r.key(bankID)).Err()
}

func (r *BankRepository) cached(ctx context.Context, bankID string) (*quiz.QuestionBank, bool) {
	data, err := r.client.Get(ctx, r.key(bankID)).Result()
	if err != nil {
		return nil, false
	}

	r.decodedMu.Lock()
	entry, ok := r.decoded[bankID]
	r.decodedMu.Unlock()
	if ok && entry.raw == data {
		return entry.bank, true
	}

	var raw domain.Bank
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, false
	}
	bank, err := quiz.FromBank(raw)
	if err != nil {
		return nil, false
	}
	r.remember(bankID, data, bank)
	return bank, true
}

func (r *BankRepository) remember(bankID, raw string, bank *quiz.QuestionBank) {
	r.decodedMu.Lock()
	defer r.decodedMu.Unlock()
	r.decoded[bankID] = decodedBank{raw: raw, bank: bank}
}

func (r *BankRepository) key(bankID string) string {
	return "quiz:bank:" + bankID
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

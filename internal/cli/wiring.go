package cli

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"geoquiz-service/internal/app"
	"geoquiz-service/internal/config"
	"geoquiz-service/internal/infra/file"
	"geoquiz-service/internal/infra/memory"
	pgstore "geoquiz-service/internal/infra/postgres"
	redisstore "geoquiz-service/internal/infra/redis"
	"geoquiz-service/internal/infra/sqlite"
	"geoquiz-service/internal/logger"
	"geoquiz-service/internal/quiz"
)

// appRuntime bundles the wired service and everything that must be closed.
type appRuntime struct {
	cfg     config.Config
	logger  *zap.Logger
	service *app.QuizService
	closers []func()
}

func (r *appRuntime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	_ = r.logger.Sync()
}

func loadConfig(path string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func newRuntime(ctx context.Context, configPath string) (*appRuntime, error) {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	rt := &appRuntime{cfg: cfg, logger: log}

	loader, err := rt.bankLoader(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Session.TTL, 24*time.Hour)

	var banks app.BankRepository
	var sessions app.SessionRepository
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = client.Close() })
		banks = redisstore.NewBankRepository(client, loader, bankTTL)
		sessions = redisstore.NewSessionStore(client, sessionTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
		sessions = memory.NewSessionStore(sessionTTL)
	}

	rt.service = app.NewQuizService(sessions, banks, log, app.WithDefaultBank(cfg.Bank.Default))
	log.Info("quiz service wired",
		zap.String("bank_source", cfg.Bank.Source),
		zap.String("default_bank", cfg.Bank.Default),
		zap.Bool("redis", cfg.Redis.Addr != ""),
	)
	return rt, nil
}

func (r *appRuntime) bankLoader(ctx context.Context) (memory.BankLoader, error) {
	switch r.cfg.Bank.Source {
	case "", config.SourceBuiltin:
		return memory.NewStaticBankLoader(quiz.GeographyBank()), nil

	case config.SourceFile:
		if r.cfg.Bank.Dir == "" {
			return nil, fmt.Errorf("bank.dir not configured")
		}
		loader := file.NewBankLoader(r.cfg.Bank.Dir)
		ids, err := loader.List()
		if err != nil {
			return nil, fmt.Errorf("list banks in %s: %w", r.cfg.Bank.Dir, err)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("no bank files in %s", r.cfg.Bank.Dir)
		}
		if !slices.Contains(ids, r.cfg.Bank.Default) {
			r.logger.Warn("default bank has no file",
				zap.String("dir", r.cfg.Bank.Dir),
				zap.String("default_bank", r.cfg.Bank.Default),
			)
		}
		r.logger.Info("file banks available", zap.String("dir", r.cfg.Bank.Dir), zap.Strings("banks", ids))
		return loader, nil

	case config.SourcePostgres:
		if r.cfg.Postgres.URL == "" {
			return nil, fmt.Errorf("postgres url not configured")
		}
		if err := runMigrationsWithConfig(ctx, r.cfg, r.logger); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, r.cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		r.closers = append(r.closers, pool.Close)
		return pgstore.NewBankLoader(pool), nil

	case config.SourceSQLite:
		if r.cfg.SQLite.Path == "" {
			return nil, fmt.Errorf("sqlite path not configured")
		}
		loader, err := sqlite.Open(r.cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		r.closers = append(r.closers, func() { _ = loader.Close() })
		return loader, nil
	}
	return nil, fmt.Errorf("unknown bank source %q", r.cfg.Bank.Source)
}

package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geoquiz-service/internal/config"
	"geoquiz-service/internal/domain"
	"geoquiz-service/internal/infra/file"
	pgstore "geoquiz-service/internal/infra/postgres"
	redisstore "geoquiz-service/internal/infra/redis"
	"geoquiz-service/internal/infra/sqlite"
	"geoquiz-service/internal/quiz"
)

type bankWriter interface {
	SaveBank(ctx context.Context, bank domain.Bank) error
}

// NewSeedCmd imports YAML bank files into the configured database.
func NewSeedCmd(configPath *string) *cobra.Command {
	var target string
	var builtin bool
	cmd := &cobra.Command{
		Use:   "seed [bank.yaml...]",
		Short: "Import question banks into Postgres or SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			banks, err := readSeedBanks(args, builtin)
			if err != nil {
				return err
			}
			if len(banks) == 0 {
				return fmt.Errorf("nothing to seed: pass bank files or --builtin")
			}

			if target == "" {
				target = cfg.Bank.Source
			}
			ctx := cmd.Context()
			writer, closeWriter, err := openBankWriter(ctx, cfg, target, log)
			if err != nil {
				return err
			}
			defer closeWriter()

			var cache *redisstore.BankRepository
			if cfg.Redis.Addr != "" {
				client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
				defer client.Close()
				cache = redisstore.NewBankRepository(client, nil, 0)
			}

			for _, bank := range banks {
				if err := writer.SaveBank(ctx, bank); err != nil {
					return err
				}
				if cache != nil {
					if err := cache.Invalidate(ctx, bank.ID); err != nil {
						log.Warn("cache invalidation failed", zap.String("bank_id", bank.ID), zap.Error(err))
					}
				}
				log.Info("bank seeded",
					zap.String("bank_id", bank.ID),
					zap.Int("questions", len(bank.Questions)),
					zap.String("target", target),
				)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "postgres or sqlite (defaults to bank.source)")
	cmd.Flags().BoolVar(&builtin, "builtin", false, "also seed the compiled-in geography bank")
	return cmd
}

func readSeedBanks(paths []string, builtin bool) ([]domain.Bank, error) {
	var banks []domain.Bank
	if builtin {
		banks = append(banks, quiz.GeographyBank())
	}
	for _, path := range paths {
		bank, err := file.ReadBank(path)
		if err != nil {
			return nil, err
		}
		// reject what the service would refuse to serve
		if _, err := quiz.FromBank(bank); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		banks = append(banks, bank)
	}
	return banks, nil
}

func openBankWriter(ctx context.Context, cfg config.Config, target string, log *zap.Logger) (bankWriter, func(), error) {
	switch target {
	case config.SourcePostgres:
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return nil, nil, err
		}
		db := pgstore.OpenDB(cfg.Postgres.URL)
		return pgstore.NewBankWriter(db), func() { _ = db.Close() }, nil
	case config.SourceSQLite:
		if cfg.SQLite.Path == "" {
			return nil, nil, fmt.Errorf("sqlite path not configured")
		}
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return nil, nil, fmt.Errorf("cannot seed bank source %q; use --target postgres or sqlite", target)
}

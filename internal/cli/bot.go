package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geoquiz-service/internal/transport/telegram"
)

// NewBotCmd runs the Telegram front end with long polling.
func NewBotCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the quiz as a Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx, *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			token := rt.cfg.Telegram.Token
			if token == "" {
				token = os.Getenv("TELEGRAM_TOKEN")
			}
			if token == "" {
				return fmt.Errorf("telegram token not configured")
			}

			bot, err := tgbotapi.NewBotAPI(token)
			if err != nil {
				return fmt.Errorf("telegram auth: %w", err)
			}
			bot.Debug = rt.cfg.Telegram.Debug
			rt.logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

			if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
				rt.logger.Warn("failed to set bot commands", zap.Error(err))
			}

			u := tgbotapi.NewUpdate(0)
			u.Timeout = 60
			updates := bot.GetUpdatesChan(u)
			defer bot.StopReceivingUpdates()

			handler := telegram.NewHandler(bot, rt.service, rt.logger)
			if err := handler.Run(ctx, updates); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

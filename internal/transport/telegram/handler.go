package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"geoquiz-service/internal/domain"
)

const (
	msgWelcome        = "Answer each statement with True or False. Use Previous and Next to move around."
	msgUnknownCommand = "Unknown command. Try /start, /question or /restart."
	msgNoSession      = "No quiz in progress. Send /start to begin."
	msgUnknownBank    = "There is no question bank with that name."
	msgFailure        = "Something went wrong, please try again."
)

// QuizService is the part of app.QuizService the bot drives.
type QuizService interface {
	Start(ctx context.Context, bankID, sessionID string) (domain.View, error)
	Current(ctx context.Context, sessionID string) (domain.View, error)
	Handle(ctx context.Context, sessionID string, event domain.Event) (domain.Outcome, error)
	End(ctx context.Context, sessionID string) error
}

// Sender is satisfied by *tgbotapi.BotAPI.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Handler keeps one quiz session per chat.
type Handler struct {
	bot     Sender
	service QuizService
	logger  *zap.Logger
}

func NewHandler(bot Sender, service QuizService, logger *zap.Logger) *Handler {
	return &Handler{bot: bot, service: service, logger: logger}
}

// Commands lists the bot commands for SetMyCommands.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start or resume the quiz (optionally: /start <bank>)"},
		{Command: "question", Description: "Show the current question"},
		{Command: "restart", Description: "Start over from the first question"},
	}
}

func (h *Handler) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	chatID := update.Message.Chat.ID
	session := sessionKey(chatID)

	switch update.Message.Command() {
	case "start":
		bankID := strings.TrimSpace(update.Message.CommandArguments())
		view, err := h.service.Start(ctx, bankID, session)
		if err != nil {
			h.replyError(chatID, err)
			return
		}
		h.send(newHTMLMessage(chatID, msgWelcome, nil))
		h.sendQuestion(chatID, view)

	case "question":
		view, err := h.service.Current(ctx, session)
		if err != nil {
			h.replyError(chatID, err)
			return
		}
		h.sendQuestion(chatID, view)

	case "restart":
		current, err := h.service.Current(ctx, session)
		bankID := ""
		if err == nil {
			bankID = current.BankID
		}
		if err := h.service.End(ctx, session); err != nil {
			h.replyError(chatID, err)
			return
		}
		view, err := h.service.Start(ctx, bankID, session)
		if err != nil {
			h.replyError(chatID, err)
			return
		}
		h.sendQuestion(chatID, view)

	default:
		h.send(newHTMLMessage(chatID, msgUnknownCommand, nil))
	}
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	event, ok := parseCallback(cb.Data)
	if !ok || cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	outcome, err := h.service.Handle(ctx, sessionKey(chatID), event)
	if err != nil {
		h.logger.Warn("callback failed", zap.Int64("chat_id", chatID), zap.Error(err))
		h.answerCallback(cb.ID, userMessage(err))
		return
	}

	if outcome.Verdict != nil {
		// The callback toast is the transient verdict notification.
		h.answerCallback(cb.ID, outcome.Verdict.Message())
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID, renderQuestion(outcome.View), quizKeyboard())
	edit.ParseMode = tgbotapi.ModeHTML
	h.send(edit)
	h.answerCallback(cb.ID, "")
}

func (h *Handler) sendQuestion(chatID int64, view domain.View) {
	kb := quizKeyboard()
	h.send(newHTMLMessage(chatID, renderQuestion(view), &kb))
}

func (h *Handler) replyError(chatID int64, err error) {
	if !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrBankNotFound) {
		h.logger.Error("quiz command failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	h.send(newHTMLMessage(chatID, userMessage(err), nil))
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message", zap.Error(err))
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return msgNoSession
	case errors.Is(err, domain.ErrBankNotFound):
		return msgUnknownBank
	default:
		return msgFailure
	}
}

func newHTMLMessage(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	return msg
}

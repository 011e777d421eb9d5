package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"geoquiz-service/internal/domain"
)

const callbackPrefix = "quiz:"

func callbackData(event domain.Event) string {
	return callbackPrefix + event.String()
}

func parseCallback(data string) (domain.Event, bool) {
	if !strings.HasPrefix(data, callbackPrefix) {
		return 0, false
	}
	event, err := domain.ParseEvent(strings.TrimPrefix(data, callbackPrefix))
	if err != nil {
		return 0, false
	}
	return event, true
}

func quizKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("True", callbackData(domain.EventSelectTrue)),
			tgbotapi.NewInlineKeyboardButtonData("False", callbackData(domain.EventSelectFalse)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀ Previous", callbackData(domain.EventPrevious)),
			tgbotapi.NewInlineKeyboardButtonData("Next ▶", callbackData(domain.EventNext)),
		),
	)
}

func renderQuestion(view domain.View) string {
	return fmt.Sprintf("<b>Question %d of %d</b>\n\n%s", view.Index+1, view.Total, html.EscapeString(view.Text))
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}

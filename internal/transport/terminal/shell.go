package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"geoquiz-service/internal/app"
	"geoquiz-service/internal/domain"
)

const help = "[t]rue  [f]alse  [p]revious  [n]ext  [q]uit"

// Shell is a line-oriented presentation of one quiz session.
type Shell struct {
	service *app.QuizService
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
}

func NewShell(service *app.QuizService, in io.Reader, out io.Writer, logger *zap.Logger) *Shell {
	return &Shell{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

// Run plays until the input ends, the player quits or ctx is cancelled.
// It returns the session id so a later run can resume it.
func (s *Shell) Run(ctx context.Context, bankID, sessionID string) (string, error) {
	view, err := s.service.Start(ctx, bankID, sessionID)
	if err != nil {
		return "", err
	}
	title := view.Title
	if title == "" {
		title = view.BankID
	}
	fmt.Fprintf(s.out, "%s (session %s)\n%s\n", title, view.SessionID, help)
	s.render(view)

	for {
		if err := ctx.Err(); err != nil {
			return view.SessionID, err
		}
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return view.SessionID, s.in.Err()
		}

		line := strings.TrimSpace(s.in.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			return view.SessionID, nil
		case "?", "h", "help":
			fmt.Fprintln(s.out, help)
			continue
		}

		event, err := domain.ParseEvent(line)
		if err != nil {
			fmt.Fprintf(s.out, "unknown input %q; %s\n", line, help)
			continue
		}

		outcome, err := s.service.Handle(ctx, view.SessionID, event)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return view.SessionID, err
			}
			s.logger.Warn("event failed", zap.Stringer("event", event), zap.Error(err))
			fmt.Fprintf(s.out, "error: %v\n", err)
			continue
		}

		view = outcome.View
		if outcome.Verdict != nil {
			fmt.Fprintf(s.out, "  %s\n", outcome.Verdict.Message())
			continue
		}
		s.render(view)
	}
}

func (s *Shell) render(view domain.View) {
	fmt.Fprintf(s.out, "\n[%d/%d] %s\n", view.Index+1, view.Total, view.Text)
}

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"geoquiz-service/internal/transport/terminal"
)

// NewPlayCmd runs the quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var bankID, sessionID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx, *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			shell := terminal.NewShell(rt.service, os.Stdin, cmd.OutOrStdout(), rt.logger)
			id, err := shell.Run(ctx, bankID, sessionID)
			if id != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "resume with: geoquiz play --session %s\n", id)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&bankID, "bank", "", "question bank id (defaults to bank.default)")
	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session")
	return cmd
}

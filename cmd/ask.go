package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/ai"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/config"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question and exit",
	Long: `Run one chat turn and print the reply.

Examples:
  helpdesk ask "Is UA2402 on time?"
  helpdesk ask --offline "What is the weather in Dublin?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(newViper(cmd))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.LogLevel)

	app, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer app.closeFn()

	question := strings.Join(args, " ")
	reply, err := app.svc.HandleTurn(cmd.Context(), []ai.Message{ai.UserMessage(question)})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}

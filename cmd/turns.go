package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/assistant"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/config"
	"github.com/Vovarama1992/helpdesk-ai-bridge/internal/logging"
)

var limitFlag int

var turnsCmd = &cobra.Command{
	Use:   "turns",
	Short: "List recent audited chat turns",
	Long: `Print the most recent turns from the audit table, newest first.
Needs DATABASE_URL.

Examples:
  helpdesk turns
  helpdesk turns --limit 50`,
	Args: cobra.NoArgs,
	RunE: runTurns,
}

func init() {
	turnsCmd.Flags().IntVar(&limitFlag, "limit", 20, "Number of turns to show")
	rootCmd.AddCommand(turnsCmd)
}

func runTurns(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(newViper(cmd))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set, there is no audit log to read")
	}
	if limitFlag < 1 {
		return fmt.Errorf("--limit must be positive, got %d", limitFlag)
	}

	repo, closeFn, err := openAudit(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeFn()

	turns, err := repo.RecentTurns(cmd.Context(), limitFlag)
	if err != nil {
		return fmt.Errorf("reading turns: %w", err)
	}
	return printTurns(cmd.OutOrStdout(), turns)
}

func printTurns(w io.Writer, turns []assistant.TurnRecord) error {
	if len(turns) == 0 {
		_, err := fmt.Fprintln(w, "no turns recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tID\tACTION\tREPLY")
	for _, t := range turns {
		action := t.Action
		if action == "" {
			action = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			t.CreatedAt.UTC().Format(time.DateTime),
			t.ID,
			action,
			logging.Short(oneLine(t.Reply)),
		)
	}
	return tw.Flush()
}

func oneLine(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	providerFlag string
	offlineFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "helpdesk",
	Short: "Help-center chat backend with live flight and weather lookups",
	Long: `helpdesk answers help-center chat messages with a language model.

The model may ask for live flight status or weather; those lookups run
before the final answer is generated. Model backends are tried in order
until one replies.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "Primary model provider (openai, anthropic, gemini, ollama, mock)")
	rootCmd.PersistentFlags().BoolVar(&offlineFlag, "offline", false, "Answer with the mock backend only")
}

// newViper returns a viper instance with the command line flags that were
// actually given already set, so they win over env and config file.
func newViper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	flags := cmd.Flags()
	if flags.Changed("provider") {
		v.Set("primary_provider", providerFlag)
	}
	if flags.Changed("offline") {
		v.Set("offline_mode", offlineFlag)
	}
	if flags.Changed("port") {
		v.Set("port", portFlag)
	}
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/madisonlabs/marketlens/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and exit",
	Long: "Reports each required setting's presence (the auth header value is masked)\n" +
		"and exits non-zero if anything is missing. No webhook call is made.",
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	printSetting(config.EnvWebhookURL, cfg.Webhook.URL, false)
	printSetting(config.EnvHeaderName, cfg.Webhook.HeaderName, false)
	printSetting(config.EnvHeaderValue, cfg.Webhook.HeaderValue, true)
	fmt.Printf("%-18s %v\n", "timeout", cfg.Webhook.Timeout)
	fmt.Printf("%-18s enabled=%v path=%s max_age=%v\n", "history",
		cfg.History.Enabled, cfg.History.Path, cfg.History.MaxAge)

	if err := cfg.ValidateWebhook(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("Configuration OK.")
	return nil
}

// printSetting shows presence without leaking secrets.
func printSetting(name, value string, secret bool) {
	shown := value
	if value == "" {
		shown = "(not set)"
	} else if secret {
		shown = "(set, hidden)"
	}
	fmt.Printf("%-18s %s\n", name, shown)
}

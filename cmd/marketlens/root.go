package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/madisonlabs/marketlens/internal/config"
	"github.com/madisonlabs/marketlens/internal/model"
	"github.com/madisonlabs/marketlens/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "marketlens",
	Short: "Market insight reports, rendered for humans",
	Long: "MarketLens collects a brand and an analysis goal, sends them to your market\n" +
		"intelligence webhook, and renders the returned JSON as a readable report.\n" +
		"Defaults to `analyze` so running the binary directly opens the input form.",
	// Default to `analyze` so `marketlens` with no args opens the form.
	RunE:          runAnalyze,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: MARKETLENS_CONFIG env var or ./marketlens.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// setupLogger writes to stderr so log lines never mix into rendered output.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// openStore opens the history store, or a NopStore when history is off.
func openStore(cfg *config.Config, disabled bool, logger *slog.Logger) model.ReportStore {
	if disabled || !cfg.History.Enabled {
		return store.NewNopStore()
	}
	s, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		logger.Warn("history store unavailable, continuing without it", "error", err)
		return store.NewNopStore()
	}
	return s
}

// saveHistory persists a received report.
func saveHistory(st model.ReportStore, req model.AnalysisRequest, rep *model.AnalysisReport) error {
	payload, err := json.Marshal(rep.Fields())
	if err != nil {
		return fmt.Errorf("serialize report: %w", err)
	}
	if _, err := st.Save(model.ReportRecord{
		Brand:      req.Brand,
		Goal:       req.Goal,
		ReceivedAt: time.Now(),
		Payload:    payload,
	}); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// userMessage maps the error taxonomy to a banner message for non-technical
// users. Recoverable errors keep the form usable for another attempt.
func userMessage(err error) string {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return "Invalid input: " + verr.Error() + "."
	}
	var terr *model.TransportError
	if errors.As(err, &terr) {
		if terr.StatusCode != 0 {
			return fmt.Sprintf("The analysis service answered with an error (HTTP %d). Please try again.", terr.StatusCode)
		}
		return "The analysis service could not be reached. Check your connection and try again."
	}
	var perr *model.ParseError
	if errors.As(err, &perr) {
		return "The response was not a usable report: " + perr.Reason + "."
	}
	return err.Error()
}

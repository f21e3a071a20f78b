package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/madisonlabs/marketlens/internal/config"
	"github.com/madisonlabs/marketlens/internal/model"
	"github.com/madisonlabs/marketlens/internal/render"
	"github.com/madisonlabs/marketlens/internal/report"
	"github.com/madisonlabs/marketlens/internal/tui"
	"github.com/madisonlabs/marketlens/internal/webhook"
)

var (
	brandFlag  string
	goalFlag   string
	fromFile   string
	plainOut   bool
	noHistory  bool
	plainWidth int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Collect inputs, call the webhook, show the report",
	Long: "Opens the brand/goal form (or takes --brand/--goal), calls the analysis\n" +
		"webhook, and shows the rendered report. --from-file skips the webhook and\n" +
		"renders a local workflow output file instead.",
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	for _, fs := range []*cobra.Command{rootCmd, analyzeCmd} {
		fs.Flags().StringVar(&brandFlag, "brand", "", "brand name (skips the form)")
		fs.Flags().StringVar(&goalFlag, "goal", "", "analysis goal (skips the form)")
		fs.Flags().StringVar(&fromFile, "from-file", "", "render a local workflow output JSON instead of calling the webhook")
		fs.Flags().BoolVar(&plainOut, "plain", false, "write the rendered report to stdout instead of the TUI")
		fs.Flags().IntVar(&plainWidth, "width", 100, "render width for --plain output")
		fs.Flags().BoolVar(&noHistory, "no-history", false, "do not save this report to the local history")
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Fatal configuration problems must surface before any UI is shown.
	if fromFile == "" {
		if err := cfg.ValidateWebhook(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, "Run `marketlens check` for details.")
			os.Exit(1)
		}
	}

	st := openStore(cfg, noHistory, logger)
	defer st.Close()

	if brandFlag != "" || goalFlag != "" || plainOut {
		return analyzeOnce(cfg, st, logger)
	}
	return analyzeInteractive(cfg, st, logger)
}

// analyzeOnce is the non-interactive path: flags in, rendered report on
// stdout, non-zero exit on any failure.
func analyzeOnce(cfg *config.Config, st model.ReportStore, logger *slog.Logger) error {
	req := model.AnalysisRequest{Brand: brandFlag, Goal: goalFlag}
	source := buildSource(cfg, logger)

	rep, err := source.Fetch(context.Background(), req)
	if err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}

	if err := saveHistory(st, req, rep); err != nil {
		logger.Warn("could not save report to history", "error", err)
	}
	fmt.Print(render.New(plainWidth).Report(rep))
	return nil
}

// analyzeInteractive loops form → loader → viewer until the user quits.
// Recoverable errors come back to the form as a banner; each submission is a
// fresh independent call.
func analyzeInteractive(cfg *config.Config, st model.ReportStore, _ *slog.Logger) error {
	// The TUI owns the screen; component logs would corrupt it.
	silent := slog.New(slog.NewTextHandler(io.Discard, nil))
	source := buildSource(cfg, silent)
	canSave := !noHistory && cfg.History.Enabled

	banner := ""
	for {
		req, ok, err := tui.RunForm(banner)
		if err != nil {
			return fmt.Errorf("form error: %w", err)
		}
		if !ok {
			return nil
		}

		rep, err := tui.RunLoader(req.Brand, func(ctx context.Context) (*model.AnalysisReport, error) {
			return source.Fetch(ctx, req)
		})
		if err != nil {
			banner = userMessage(err)
			continue
		}

		// Saving is the viewer's s key; only offer it when history is on.
		var onSave func() error
		if canSave {
			onSave = func() error { return saveHistory(st, req, rep) }
		}

		title := fmt.Sprintf("%s — %s", req.Brand, req.Goal)
		wantQuit, err := tui.RunViewer(title, rep, onSave)
		if err != nil {
			return fmt.Errorf("viewer error: %w", err)
		}
		if wantQuit {
			return nil
		}
		banner = ""
	}
}

func buildSource(cfg *config.Config, logger *slog.Logger) model.ReportSource {
	if fromFile != "" {
		return report.FileSource{Path: fromFile}
	}
	httpClient := &http.Client{Timeout: cfg.Webhook.Timeout}
	return webhook.NewClient(cfg.Webhook, httpClient, logger)
}

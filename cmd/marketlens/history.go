package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/madisonlabs/marketlens/internal/config"
	"github.com/madisonlabs/marketlens/internal/model"
	"github.com/madisonlabs/marketlens/internal/render"
	"github.com/madisonlabs/marketlens/internal/report"
	"github.com/madisonlabs/marketlens/internal/store"
	"github.com/madisonlabs/marketlens/internal/tui"
)

var (
	historyID    int64
	historyLimit int
	historyPrune bool
	historyPlain bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and re-render saved reports",
	Long: "Lists reports saved from earlier runs and re-renders a chosen one.\n" +
		"Re-rendering never contacts the webhook.",
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int64Var(&historyID, "id", 0, "re-render the report with this ID")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max reports to list")
	historyCmd.Flags().BoolVar(&historyPrune, "prune", false, "delete reports older than history.max_age and exit")
	historyCmd.Flags().BoolVar(&historyPlain, "plain", false, "plain stdout output instead of the TUI")
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !cfg.History.Enabled {
		fmt.Println("History is disabled (history.enabled: false).")
		return nil
	}

	st, err := store.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		logger.Error("failed to open history store", "path", cfg.History.Path, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if historyPrune {
		n, err := st.Prune(cfg.History.MaxAge)
		if err != nil {
			logger.Error("prune failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Pruned %d report(s) older than %v.\n", n, cfg.History.MaxAge)
		return nil
	}

	if historyID != 0 {
		rec, err := st.Get(historyID)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return showRecord(rec)
	}

	records, err := st.List(historyLimit)
	if err != nil {
		logger.Error("failed to list reports", "error", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("No saved reports yet. Run `marketlens analyze` first.")
		return nil
	}

	if historyPlain {
		fmt.Printf("%-6s %-25s %-40s %s\n", "ID", "Brand", "Goal", "Received")
		fmt.Println(strings.Repeat("─", 90))
		for _, rec := range records {
			fmt.Printf("%-6d %-25s %-40s %s\n",
				rec.ID, clip(rec.Brand, 25), clip(rec.Goal, 40),
				rec.ReceivedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	}

	for {
		choice, err := tui.RunHistoryPicker(records)
		if err != nil {
			return fmt.Errorf("picker error: %w", err)
		}
		if choice < 0 {
			return nil
		}
		rec := records[choice]

		rep, err := report.Decode(rec.Payload, fmt.Sprintf("history #%d", rec.ID))
		if err != nil {
			fmt.Fprintln(os.Stderr, userMessage(err))
			continue
		}

		title := fmt.Sprintf("#%d  %s — %s", rec.ID, rec.Brand, rec.Goal)
		wantQuit, err := tui.RunViewer(title, rep, nil)
		if err != nil {
			return fmt.Errorf("viewer error: %w", err)
		}
		if wantQuit {
			return nil
		}
		// else: loop → back to the picker
	}
}

func showRecord(rec model.ReportRecord) error {
	rep, err := report.Decode(rec.Payload, fmt.Sprintf("history #%d", rec.ID))
	if err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}

	if historyPlain {
		fmt.Print(render.New(100).Report(rep))
		return nil
	}

	title := fmt.Sprintf("#%d  %s — %s", rec.ID, rec.Brand, rec.Goal)
	if _, err := tui.RunViewer(title, rep, nil); err != nil {
		return fmt.Errorf("viewer error: %w", err)
	}
	return nil
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

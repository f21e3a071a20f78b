package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/madisonlabs/marketlens/internal/render"
	"github.com/madisonlabs/marketlens/internal/report"
	"github.com/madisonlabs/marketlens/internal/tui"
)

var (
	renderPlain bool
	renderWidth int
)

var renderCmd = &cobra.Command{
	Use:   "render <file.json>",
	Short: "Render a workflow output file without calling the webhook",
	Long: "The upload path: reads a JSON file produced by the analysis workflow and\n" +
		"renders it exactly like a webhook response. No webhook configuration needed.",
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVar(&renderPlain, "plain", false, "write the rendered report to stdout instead of the TUI")
	renderCmd.Flags().IntVar(&renderWidth, "width", 100, "render width for --plain output")
}

func runRender(cmd *cobra.Command, args []string) error {
	path := args[0]

	rep, err := report.LoadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}

	if renderPlain {
		fmt.Print(render.New(renderWidth).Report(rep))
		return nil
	}

	if _, err := tui.RunViewer(filepath.Base(path), rep, nil); err != nil {
		return fmt.Errorf("viewer error: %w", err)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Laisky/image-search-client/cmd/tui"
	"github.com/Laisky/image-search-client/library/log"
)

var tuiCMD = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive image search",
	Long: `Launch an interactive Terminal User Interface (TUI) to search images.

Recent searches are loaded once when the TUI starts. While it runs, logs
go to --log-file, or are dropped below the fatal level when no file is set.

Example:
  imgsearch tui --backend http://localhost:3000 --log-file imgsearch.log

Keyboard shortcuts:
  Enter       Search / open the selected page
  Tab         Switch between search box and pages
  ←/→ or h/l  Move between pages
  1-9         Open a page
  Esc         Back to the search box
  q           Quit (from the pages)
  Ctrl+C      Quit`,
	Args: gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTUI(cmd.Context(), gconfig.Shared.GetString("log-file")); err != nil {
			fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCMD.AddCommand(tuiCMD)
	tuiCMD.Flags().String("log-file", "", "write logs to this file while the TUI runs")
}

// runTUI starts the interactive Terminal User Interface and returns any start/run error.
// Logs are kept off the screen until it returns.
func runTUI(ctx context.Context, logFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	restoreLogger, err := log.KeepOffScreen(logFile)
	if err != nil {
		return errors.Wrap(err, "redirect logs")
	}
	defer restoreLogger()

	controller, recent, err := newComponents()
	if err != nil {
		return errors.WithStack(err)
	}

	p := tea.NewProgram(
		tui.NewModel(ctx, controller, recent),
		tea.WithAltScreen(), // Use alternate screen buffer
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	return errors.WithStack(err)
}

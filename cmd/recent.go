package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Laisky/errors/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/image-search-client/library/log"
)

var recentCMD = &cobra.Command{
	Use:   "recent",
	Short: "Print the recent searches recorded by the backend",
	Args:  gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runRecent(cmd.Context(), os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCMD.AddCommand(recentCMD)
}

func runRecent(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	_, recent, err := newComponents()
	if err != nil {
		return errors.WithStack(err)
	}

	recent.Load(ctx)
	entries := recent.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No recent searches.")
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(w, "• %s\n", entry.Label())
	}

	return nil
}

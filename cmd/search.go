package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/image-search-client/internal/imagesearch"
	"github.com/Laisky/image-search-client/library/log"
)

var searchCMD = &cobra.Command{
	Use:   "search TERM...",
	Short: "Search images once and print one page",
	Long: `Search images for TERM and print the requested page, its page
controls and the recent searches loaded alongside it.

Example:
  imgsearch search --backend http://localhost:3000 --page 2 black cats`,
	Args: cobra.MinimumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		term := strings.Join(args, " ")
		page := gconfig.Shared.GetInt("page")
		if err := runSearch(cmd.Context(), os.Stdout, term, page); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCMD.AddCommand(searchCMD)
	searchCMD.Flags().IntP("page", "p", 1, "page to print, starting from 1")
}

// runSearch fetches the page of term and the recent searches in parallel.
//
// Failures are rendered the way the TUI renders them, an empty result
// or an empty history, the returned error is only about setup.
func runSearch(ctx context.Context, w io.Writer, term string, page int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	controller, recent, err := newComponents()
	if err != nil {
		return errors.WithStack(err)
	}

	q, ok := controller.SubmitSearch(term)
	if !ok {
		return errors.New("search term cannot be empty")
	}
	if page > 1 {
		if q, ok = controller.ChangePage(page); !ok {
			return errors.Errorf("cannot open page %d", page)
		}
	}

	var (
		searchOut imagesearch.Outcome
		recentOut imagesearch.RecentOutcome
	)
	var pool errgroup.Group
	pool.Go(func() error {
		recentOut = recent.Fetch(ctx)
		return nil
	})
	pool.Go(func() error {
		searchOut = controller.Fetch(ctx, q)
		return nil
	})
	_ = pool.Wait()

	recent.Apply(recentOut)
	controller.Apply(searchOut)

	renderSearch(w, controller.Snapshot(), recent.Entries())
	return nil
}

func renderSearch(w io.Writer, snap imagesearch.Snapshot, entries []imagesearch.RecentSearch) {
	fmt.Fprintf(w, "Results for %q, page %d\n", snap.Term, snap.Page)
	if len(snap.Images) == 0 {
		fmt.Fprintln(w, "  No images found.")
	}
	for i, img := range snap.Images {
		desc := img.Description
		if desc == "" {
			desc = "No description"
		}
		fmt.Fprintf(w, "  %2d. %s\n      %s\n", i+1, desc, img.URL)
	}

	if len(snap.Pages) > 0 {
		labels := make([]string, 0, len(snap.Pages)+2)
		if snap.Pages[0].Page > 1 {
			labels = append(labels, "…")
		}
		for _, pc := range snap.Pages {
			if pc.Active {
				labels = append(labels, fmt.Sprintf("[%d]", pc.Page))
			} else {
				labels = append(labels, fmt.Sprintf("%d", pc.Page))
			}
		}
		if snap.Pages[len(snap.Pages)-1].Page < snap.TotalPages {
			labels = append(labels, "…")
		}
		fmt.Fprintf(w, "Pages: %s\n", strings.Join(labels, " "))
	}

	fmt.Fprintln(w, "Recent searches:")
	for _, entry := range entries {
		fmt.Fprintf(w, "  • %s\n", entry.Label())
	}
}

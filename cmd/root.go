// Package cmd command line
package cmd

import (
	"context"
	"fmt"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	glog "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/image-search-client/internal/imagesearch"
	"github.com/Laisky/image-search-client/internal/imagesearch/backend"
	"github.com/Laisky/image-search-client/library/config"
	"github.com/Laisky/image-search-client/library/log"
)

var rootCMD = &cobra.Command{
	Use:   "imgsearch",
	Short: "imgsearch",
	Long:  `search images and browse recent searches of an image search backend`,
	Args:  gcmd.NoExtraArgs,
}

func initialize(ctx context.Context, cmd *cobra.Command) error {
	if err := gconfig.Shared.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind pflags")
	}

	setupSettings(ctx)
	setupLogger(ctx)

	return nil
}

func setupSettings(ctx context.Context) {
	// mode
	if gconfig.Shared.GetBool("debug") {
		fmt.Println("run in debug mode")
		gconfig.Shared.Set("log-level", "debug")
	}

	// load configuration
	config.LoadFromFile(gconfig.Shared.GetString("config"))
}

func setupLogger(ctx context.Context) {
	lvl := gconfig.Shared.GetString("log-level")
	if err := log.Logger.ChangeLevel(glog.Level(lvl)); err != nil {
		log.Logger.Panic("change log level", zap.Error(err), zap.String("level", lvl))
	}
}

// newComponents builds the search controller and the recent searches view
// from the backend settings.
func newComponents() (*imagesearch.SearchController, *imagesearch.RecentSearchesView, error) {
	if err := validateClientConfig(); err != nil {
		return nil, nil, errors.WithStack(err)
	}

	cfg := config.LoadBackend()
	client, err := backend.NewClient(cfg.URL, backend.WithTimeout(cfg.Timeout))
	if err != nil {
		return nil, nil, errors.Wrap(err, "new backend client")
	}

	controller, err := imagesearch.NewSearchController(client)
	if err != nil {
		return nil, nil, errors.Wrap(err, "new search controller")
	}

	recent, err := imagesearch.NewRecentSearchesView(client, nil)
	if err != nil {
		return nil, nil, errors.Wrap(err, "new recent searches view")
	}

	log.Logger.Debug("backend configured",
		zap.String("url", client.BaseURL()),
		zap.Duration("timeout", cfg.Timeout))
	return controller, recent, nil
}

func init() {
	rootCMD.PersistentFlags().Bool("debug", false, "run in debug mode")
	rootCMD.PersistentFlags().StringP("config", "c", "", "optional config file path")
	rootCMD.PersistentFlags().String("backend", "", "backend base url, like `http://localhost:3000`")
	rootCMD.PersistentFlags().String("log-level", "info", "`debug/info/error`")
}

// Execute execute root command
func Execute() {
	if err := rootCMD.Execute(); err != nil {
		glog.Shared.Panic("start", zap.Error(err))
	}
}

package cmd

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"
	gcmd "github.com/Laisky/go-utils/v6/cmd"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Laisky/image-search-client/internal/mockbackend"
	"github.com/Laisky/image-search-client/library/log"
)

var mockBackendCMD = &cobra.Command{
	Use:   "mock-backend",
	Short: "Serve an in-memory image search backend",
	Long: `Serve a fake backend implementing /api/imagesearch and /api/recent
for local development. Every term matches a generated set of images.

Example:
  imgsearch mock-backend --listen localhost:3000`,
	Args: gcmd.NoExtraArgs,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
		if err := validateMockBackendConfigWithGetter(func(key string) any {
			return gconfig.Shared.Get(key)
		}); err != nil {
			log.Logger.Panic("invalid configuration", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if !gconfig.Shared.GetBool("debug") {
			gin.SetMode(gin.ReleaseMode)
		}

		var opts []mockbackend.Option
		if gconfig.Shared.Get("settings.mock_backend.page_size") != nil {
			opts = append(opts, mockbackend.WithPageSize(
				gconfig.Shared.GetInt("settings.mock_backend.page_size")))
		}
		if gconfig.Shared.Get("settings.mock_backend.results_per_term") != nil {
			opts = append(opts, mockbackend.WithResultsPerTerm(
				gconfig.Shared.GetInt("settings.mock_backend.results_per_term")))
		}
		if gconfig.Shared.Get("settings.mock_backend.recent_limit") != nil {
			opts = append(opts, mockbackend.WithRecentLimit(
				gconfig.Shared.GetInt("settings.mock_backend.recent_limit")))
		}

		srv := mockbackend.New(opts...)
		addr := gconfig.Shared.GetString("listen")
		log.Logger.Panic("httpServer exit", zap.Error(srv.Run(addr)))
	},
}

func init() {
	rootCMD.AddCommand(mockBackendCMD)
	mockBackendCMD.Flags().String("listen", "localhost:3000", "like `localhost:3000`")
}

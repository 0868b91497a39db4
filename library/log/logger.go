// Package log holds the process-wide logger of the image search client.
package log

import (
	"github.com/Laisky/errors/v2"
	logSDK "github.com/Laisky/go-utils/v6/log"
	"github.com/Laisky/zap"
)

const loggerName = "imgsearch"

// Logger is shared by every package that has no contextual logger at hand.
var Logger logSDK.Logger

func init() {
	var err error
	if Logger, err = logSDK.New(
		logSDK.WithName(loggerName),
		logSDK.WithEncoding(logSDK.EncodingConsole),
		logSDK.WithLevel(logSDK.LevelInfo),
		logSDK.WithOutputPaths([]string{"stderr"}),
	); err != nil {
		logSDK.Shared.Panic("new logger", zap.Error(err))
	}
}

// KeepOffScreen stops Logger from writing to the terminal until restore is called.
//
// With a path, Logger is replaced by a logger appending to that file at the
// same level. Without one, only fatal and panic entries are kept.
// Loggers derived before the call keep their sink, so call it before
// building the components that log.
func KeepOffScreen(path string) (restore func(), err error) {
	prev := Logger
	lvl := prev.Level()

	if path == "" {
		if err = prev.ChangeLevel(logSDK.LevelFatal); err != nil {
			return nil, errors.Wrap(err, "raise logger level")
		}
		return func() {
			_ = prev.ChangeLevel(lvl)
		}, nil
	}

	fileLogger, err := logSDK.New(
		logSDK.WithName(loggerName),
		logSDK.WithLevel(lvl),
		logSDK.WithOutputPaths([]string{path}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "new file logger %q", path)
	}

	Logger = fileLogger
	return func() {
		_ = fileLogger.Sync()
		Logger = prev
	}, nil
}

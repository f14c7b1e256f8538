// fnaclient opens a device and audio engine on the main thread and draws a
// textured quad, optionally loading a bone tree and texture from the title
// location.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/fnago/internal/config"
	"github.com/Faultbox/fnago/internal/logger"
	"github.com/Faultbox/fnago/internal/threadcheck"
)

var (
	flagModel   = flag.String("model", "", "Bone tree (.xbon) to load, relative to the title location")
	flagTexture = flag.String("texture", "", "Image to draw, relative to the title location")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.Config{Level: cfg.Logging.Level, Console: true}
	if cfg.Logging.LogFile != "" {
		logCfg.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== fnaclient ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	guard := threadcheck.New(cfg.Debug.ThreadCheck)

	var runErr error
	threadcheck.Run(func() {
		runErr = threadcheck.CallErr(func() error {
			a, err := newApp(cfg, guard)
			if err != nil {
				return err
			}
			defer a.close()
			return a.run(*flagModel, *flagTexture)
		})
	})
	if runErr != nil {
		logger.Error("client error", zap.Error(runErr))
		os.Exit(1)
	}

	logger.Info("client closed normally")
}

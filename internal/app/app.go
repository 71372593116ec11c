package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ditherit/ditherit/configs"
)

const defaultConfigFile = "config.toml"

var rootCmd = &cobra.Command{
	Use:               "ditherit",
	Short:             "Bi-level image dithering",
	SilenceUsage:      true,
	PersistentPreRunE: appPersistentPreRun,
}

var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c",
		"", "Configuration file",
	)
	rootCmd.PersistentFlags().StringVarP(
		&logLevel, "level", "l",
		"", "Log level",
	)
}

func appPersistentPreRun(cmd *cobra.Command, _ []string) error {
	if err := configs.LoadDotEnv(); err != nil {
		log.WithError(err).Warn("cannot load .env file")
	}

	if configPath == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			configPath = defaultConfigFile
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if err := configs.LoadConfiguration(configPath); err != nil {
		return fmt.Errorf("error loading configuration (%s)", err)
	}
	configs.LoadEnv()

	if cmd.Flags().Changed("level") {
		configs.Config.Main.LogLevel = logLevel
	}

	// Enforce debug in dev mode
	if configs.Config.Main.DevMode {
		configs.Config.Main.LogLevel = "debug"
	}

	setupLogger()
	log.WithField("config", configPath).Debug("configuration loaded")

	return nil
}

func setupLogger() {
	lvl, err := log.ParseLevel(configs.Config.Main.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	if configs.Config.Main.DevMode {
		log.SetFormatter(&log.TextFormatter{
			ForceColors: true,
		})
		log.SetOutput(colorable.NewColorableStdout())
	}
}

// Run starts the application
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP,
	)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Fatal()
	}

	return nil
}

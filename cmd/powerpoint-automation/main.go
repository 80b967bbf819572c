// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the powerpoint-automation CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the powerpoint-automation CLI.
var rootCmd = &cobra.Command{
	Use:   "powerpoint-automation",
	Short: "Batch tools for directories of PowerPoint presentations",
	Long: `powerpoint-automation processes every .pptx file of a directory: it converts
presentations to PDF with LibreOffice (skipping files whose content has not
changed since their last successful conversion), removes pictures by image
hash, stamps document metadata and git information, replaces text and
exports slide text.

Lock files whose name starts with "~" are ignored by every command.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./powerpoint-automation.yaml or ~/.config/powerpoint-automation/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	_ = godotenv.Load() // .env is optional

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("powerpoint-automation")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "powerpoint-automation"))
		}
	}

	viper.SetEnvPrefix("POWERPOINT_AUTOMATION")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, rootCmd, fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

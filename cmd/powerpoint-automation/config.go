// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/powerpoint-automation/internal/logging"
	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

// addDirectoryFlags registers the flags every batch command shares.
func addDirectoryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input-directory", "d", ".", "directory containing the presentations")
	cmd.Flags().StringSliceP("skip", "s", nil, "presentation name (without extension) to leave untouched; repeatable")
}

// bindFlags binds the flags of the running command to viper keys of the
// same name, so each value resolves as flag > environment > config file >
// default. Binding happens per run because commands share flag names.
func bindFlags(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr := viper.BindPFlag(f.Name, f); bindErr != nil && err == nil {
			err = fmt.Errorf("binding flag %s: %w", f.Name, bindErr)
		}
	})
	return err
}

// directoryConfig reads the shared batch settings. The input directory must
// exist and is made absolute, so cache keys do not depend on the working
// directory.
func directoryConfig() (types.DirectoryConfig, error) {
	dir, err := filepath.Abs(viper.GetString("input-directory"))
	if err != nil {
		return types.DirectoryConfig{}, fmt.Errorf("resolving input directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return types.DirectoryConfig{}, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return types.DirectoryConfig{}, fmt.Errorf("input directory %s is not a directory", dir)
	}
	return types.DirectoryConfig{
		InputDir: dir,
		Skip:     viper.GetStringSlice("skip"),
	}, nil
}

// absPath makes a command-line path absolute; empty stays empty.
func absPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	return filepath.Abs(p)
}

func newLogger() zerolog.Logger {
	return logging.New(types.LogConfig{
		Level:  viper.GetString("log-level"),
		Format: viper.GetString("log-format"),
	}, os.Stdout)
}

// failures turns a batch's failure count into the command's error.
func failures(n int, what string) error {
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%d presentation(s) failed %s", n, what)
}

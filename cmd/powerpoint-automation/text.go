// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/powerpoint-automation/internal/edit"
	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

var textCmd = &cobra.Command{
	Use:   "create-txt",
	Short: "Export the text of every presentation",
	Long: `Create-txt writes one <name>.txt per presentation into the output
directory: an outline of START/END markers for every slide and shape with the
text of each paragraph, bold paragraphs wrapped in ** and italic ones in _.`,
	RunE: runText,
}

func init() {
	addDirectoryFlags(textCmd)
	textCmd.Flags().StringP("output-directory", "o", "texts", "directory receiving the text files")

	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	dir, err := directoryConfig()
	if err != nil {
		return err
	}
	out, err := absPath(viper.GetString("output-directory"))
	if err != nil {
		return err
	}

	cfg := types.TextConfig{DirectoryConfig: dir, OutputDir: out}
	sum, err := edit.New(afero.NewOsFs(), newLogger(), nil).ExportText(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return failures(sum.Failed, "text export")
}

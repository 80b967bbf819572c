// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/powerpoint-automation/internal/edit"
	"github.com/pdiddy/powerpoint-automation/internal/gitlog"
	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

var metadataCmd = &cobra.Command{
	Use:   "add-meta-data",
	Short: "Write authors, classification and git dates into the document properties",
	Long: `Add-meta-data sets the author, language, keywords, category and content
status of every presentation. The creation date is the author date of the
first commit of the file (following renames), the modification date and the
version are the date and short hash of its last commit. Presentations are
rewritten in place.`,
	RunE: runMetadata,
}

func init() {
	addDirectoryFlags(metadataCmd)
	metadataCmd.Flags().StringSliceP("author", "a", nil, "author name; repeatable, joined with \", \"")
	metadataCmd.Flags().String("language", "English", "document language")
	metadataCmd.Flags().String("keywords", "Security", "document keywords")
	metadataCmd.Flags().String("category", "Lecture slides", "document category")
	metadataCmd.Flags().String("content-status", "final", "document content status")

	rootCmd.AddCommand(metadataCmd)
}

func runMetadata(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	dir, err := directoryConfig()
	if err != nil {
		return err
	}

	cfg := types.MetadataConfig{
		DirectoryConfig: dir,
		Authors:         viper.GetStringSlice("author"),
		Language:        viper.GetString("language"),
		Keywords:        viper.GetString("keywords"),
		Category:        viper.GetString("category"),
		ContentStatus:   viper.GetString("content-status"),
	}
	sum, err := edit.New(afero.NewOsFs(), newLogger(), gitlog.New()).StampMetadata(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return failures(sum.Failed, "metadata stamping")
}

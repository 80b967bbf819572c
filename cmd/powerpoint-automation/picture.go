// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/powerpoint-automation/internal/edit"
	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

var removePictureCmd = &cobra.Command{
	Use:   "remove-picture",
	Short: "Remove pictures from all slides by image hash",
	Long: `Remove-picture deletes every picture whose image has one of the given SHA1
digests (hex, any case). Changed presentations are written to <name>.out.pptx
beside the source, or over the source with --inplace.`,
	RunE: runRemovePicture,
}

func init() {
	addDirectoryFlags(removePictureCmd)
	removePictureCmd.Flags().StringSliceP("hash-value", "S", nil, "SHA1 digest of an image to remove; repeatable")
	removePictureCmd.Flags().BoolP("inplace", "i", false, "rewrite the presentations in place")

	rootCmd.AddCommand(removePictureCmd)
}

func runRemovePicture(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	dir, err := directoryConfig()
	if err != nil {
		return err
	}

	cfg := types.RemovePictureConfig{
		DirectoryConfig: dir,
		Hashes:          viper.GetStringSlice("hash-value"),
		InPlace:         viper.GetBool("inplace"),
	}
	sum, err := edit.New(afero.NewOsFs(), newLogger(), nil).RemovePictures(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return failures(sum.Failed, "picture removal")
}

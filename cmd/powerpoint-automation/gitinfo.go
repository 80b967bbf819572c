// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pdiddy/powerpoint-automation/internal/edit"
	"github.com/pdiddy/powerpoint-automation/internal/gitlog"
)

var gitInfoCmd = &cobra.Command{
	Use:   "add-git-info",
	Short: "Stamp the last commit date and hash on every slide",
	Long: `Add-git-info adds a small text box reading "<commit date> | <short hash>"
for the last commit of the presentation to the bottom right of every slide.
Presentations are rewritten in place.`,
	RunE: runGitInfo,
}

func init() {
	addDirectoryFlags(gitInfoCmd)
	rootCmd.AddCommand(gitInfoCmd)
}

func runGitInfo(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	dir, err := directoryConfig()
	if err != nil {
		return err
	}

	sum, err := edit.New(afero.NewOsFs(), newLogger(), gitlog.New()).StampGitInfo(cmd.Context(), dir)
	if err != nil {
		return err
	}
	return failures(sum.Failed, "git stamping")
}

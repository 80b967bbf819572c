// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/powerpoint-automation/internal/edit"
	"github.com/pdiddy/powerpoint-automation/pkg/types"
)

var replaceCmd = &cobra.Command{
	Use:   "replace-text",
	Short: "Replace text on every slide",
	Long: `Replace-text substitutes literal text inside the text runs of every slide.
Give a single pair with --from/--to, or an ordered list in a YAML file with
--rules; rules from the file run after the --from/--to pair. Changed
presentations are written to <name>.out.pptx, or over the source with
--inplace.`,
	RunE: runReplace,
}

func init() {
	addDirectoryFlags(replaceCmd)
	replaceCmd.Flags().String("from", "", "text to replace")
	replaceCmd.Flags().String("to", "", "replacement text")
	replaceCmd.Flags().String("rules", "", "YAML file with an ordered list of replacements")
	replaceCmd.Flags().BoolP("inplace", "i", false, "rewrite the presentations in place")

	rootCmd.AddCommand(replaceCmd)
}

func runReplace(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd); err != nil {
		return err
	}
	dir, err := directoryConfig()
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	cfg := types.ReplaceConfig{DirectoryConfig: dir, InPlace: viper.GetBool("inplace")}
	if from := viper.GetString("from"); from != "" {
		cfg.Rules = append(cfg.Rules, types.Replacement{From: from, To: viper.GetString("to")})
	}
	if path := viper.GetString("rules"); path != "" {
		rules, err := edit.LoadRules(fs, path)
		if err != nil {
			return err
		}
		cfg.Rules = append(cfg.Rules, rules...)
	}

	sum, err := edit.New(fs, newLogger(), nil).ReplaceText(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	return failures(sum.Failed, "text replacement")
}

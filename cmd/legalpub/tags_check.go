package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torosent/legalpub/internal/output"
	"github.com/torosent/legalpub/internal/tags"
)

func newTagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Inspect tag dictionaries",
	}
	cmd.AddCommand(newTagsCheckCmd(a))
	return cmd
}

func newTagsCheckCmd(a *app) *cobra.Command {
	var braced, strict bool
	cmd := &cobra.Command{
		Use:   "check <tags.json>",
		Short: "Report tag values that contain another tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := tags.Load(args[0])
			if err != nil {
				return err
			}
			style := tags.StyleBare
			if braced {
				style = tags.StyleBraced
			}
			collisions := dict.Collisions(style)
			output.PrintCollisions(a.stdout, dict, style, collisions)
			if strict && len(collisions) > 0 {
				return fmt.Errorf("%d tag collisions", len(collisions))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&braced, "braced", false, "Check {key} tags instead of bare keys")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when collisions are found")
	return cmd
}

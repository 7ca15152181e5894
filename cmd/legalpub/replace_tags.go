package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/torosent/legalpub/internal/tags"
)

func newReplaceTagsCmd(a *app) *cobra.Command {
	var (
		outputPath string
		dir        string
		bare       bool
	)
	cmd := &cobra.Command{
		Use:   "replace-tags <input> <tags>",
		Short: "Replace {tag} markers in a file with values from a JSON dictionary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			style := tags.StyleBraced
			if bare {
				style = tags.StyleBare
			}
			res, err := tags.RenderFile(tags.RenderRequest{
				Dir:    dir,
				Input:  args[0],
				Tags:   args[1],
				Output: outputPath,
				Style:  style,
			})
			if err != nil {
				var missing *tags.MissingFileError
				if errors.As(err, &missing) {
					fmt.Fprintf(a.stdout, "An error occurred: %v\n", missing)
					return errReported
				}
				return err
			}

			for _, c := range res.Dict.Collisions(style) {
				a.logger.Warn("tag value contains another tag",
					zap.String("tag", c.Key), zap.String("contains", c.Contains))
			}
			a.logger.Debug("tags replaced",
				zap.Int("replacements", res.Stats.Total),
				zap.Strings("unused", res.Stats.Unused))

			if res.Output == "" {
				fmt.Fprintln(a.stdout, res.Text)
				return nil
			}
			fmt.Fprintf(a.stdout, "File converted successfully: %s\n", res.Output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the result to this file instead of stdout")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory relative paths are resolved against")
	cmd.Flags().BoolVar(&bare, "bare", false, "Match bare keys instead of {key}")
	return cmd
}

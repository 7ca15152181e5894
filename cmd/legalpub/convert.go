package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torosent/legalpub/internal/config"
	"github.com/torosent/legalpub/internal/convert"
	"github.com/torosent/legalpub/internal/output"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a contract document to HTML and fill in its placeholders",
		Long: `convert runs the document converter on --file-name, checks the resulting HTML
and writes <file-name>.html next to the source with every placeholder
(company_address, strike_price, ...) replaced by the matching flag value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader().LoadConvert(cmd.Flags(), convert.RequiredArguments)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			converter := convert.NewPandocConverter(a.newRunner(false, a.stdout), cfg.Converter, cfg.From)
			svc := convert.NewService(converter, a.logger, a.tracer())
			res, err := svc.Run(cmd.Context(), convert.Request{Dir: cfg.Dir, Values: cfg.Values})

			var argErr *convert.ArgumentError
			var verr *convert.ValidationError
			switch {
			case errors.As(err, &argErr):
				output.PrintIssues(a.stdout, argErr.Issues())
				return errReported
			case errors.As(err, &verr):
				for _, d := range verr.Diagnostics {
					fmt.Fprintln(a.stdout, d)
				}
				return errReported
			case err != nil:
				return err
			}

			for _, name := range res.Invalid {
				fmt.Fprintf(a.stdout, "%s invalid argument\n", name)
			}
			fmt.Fprintln(a.stdout, "File Converted successfully")
			return nil
		},
	}
	config.RegisterConvertFlags(cmd.Flags(), convert.RequiredArguments)
	return cmd
}

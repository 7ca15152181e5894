package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/torosent/legalpub/internal/config"
	"github.com/torosent/legalpub/internal/output"
	"github.com/torosent/legalpub/internal/publish"
)

func newPublishCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Fill tags into HTML documents, upload them and add them to the store",
		Long: `publish reads config.json (or --config), applies the tag dictionary to each
<name>.html, writes <name>-edited.html, copies it to the remote host with scp
and adds it to the store running in the remote container.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader().LoadPublish(cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.ConfigFile != "" {
				a.logger.Debug("loaded config", zap.String("path", cfg.ConfigFile))
			}

			// Status lines and dry-run echoes would corrupt structured reports on stdout.
			status := a.stdout
			if cfg.Output != config.OutputText {
				status = a.stderr
			}

			p := publish.New(*cfg, a.newRunner(cfg.DryRun, status), status, a.logger, a.tracer())
			report, runErr := p.Run(cmd.Context())
			if report.Files != nil || runErr == nil {
				if err := output.Write(a.stdout, cfg.Output, report); err != nil {
					return err
				}
			}
			return runErr
		},
	}
	config.RegisterPublishFlags(cmd.Flags())
	return cmd
}

package main

import (
	"context"

	"github.com/IvanShishkin/winsentry/internal/autorun"
	"github.com/IvanShishkin/winsentry/internal/posture"
	"github.com/IvanShishkin/winsentry/internal/report"
	"github.com/spf13/cobra"
)

// autorunsCmd creates the autoruns command
func autorunsCmd() *cobra.Command {
	var (
		flags        scanFlags
		unverified   bool
		sigcheckPath string
	)

	cmd := &cobra.Command{
		Use:   "autoruns",
		Short: "Audit registry run keys and startup folders",
		Long: `List every registry run key value and startup folder item with the code
signing status of its executable. Signatures are checked with Sysinternals
sigcheck when it can be found, otherwise they are reported as Unverifiable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			warnIfNotWindows("Autorun auditing")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}
			if sigcheckPath != "" {
				cfg.SigcheckPath = sigcheckPath
			}

			runner := posture.ExecRunner{Timeout: cfg.CommandTimeout}
			auditor := autorun.NewSystemAuditor(cfg.SigcheckPath, runner, logger)

			rep := report.NewScanReport(version, report.ModeAutoruns)
			rep.Autoruns = auditor.Audit(context.Background())
			if unverified {
				rep.Autoruns = rep.UnverifiedAutoruns()
			}
			return emit(cfg, rep)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&unverified, "unverified", false, "Only show entries without a verified signature")
	cmd.Flags().StringVar(&sigcheckPath, "sigcheck", "", "Path to sigcheck.exe")
	return cmd
}

package main

import (
	"context"

	"github.com/IvanShishkin/winsentry/internal/posture"
	"github.com/IvanShishkin/winsentry/internal/privilege"
	"github.com/IvanShishkin/winsentry/internal/report"
	"github.com/spf13/cobra"
)

// postureCmd creates the posture command
func postureCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "posture",
		Short: "Check firewall, UAC and real-time protection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			warnIfNotWindows("Posture checking")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}

			rep := report.NewScanReport(version, report.ModePosture)
			rep.Posture = posture.NewSystemEngine(cfg, logger).CheckPosture(context.Background())
			return emit(cfg, rep)
		},
	}

	flags.register(cmd)
	return cmd
}

// hardenCmd creates the harden command
func hardenCmd() *cobra.Command {
	var (
		flags scanFlags
		live  bool
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "harden",
		Short: "Remediate non-compliant security settings",
		Long: `Turn on the firewall, UAC and real-time protection where they are off.

Runs as a dry run unless --live is given. A live run requires Administrator
rights and never touches a setting whose state could not be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			warnIfNotWindows("Hardening")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}

			if live && !yes && privilege.IsElevated() && !confirm("Apply remediation to this host?") {
				gray.Println("  Cancelled")
				return nil
			}

			engine := posture.NewSystemEngine(cfg, logger)
			ctx := context.Background()

			rep := report.NewScanReport(version, report.ModeHarden)
			rep.Actions = engine.ApplyRemediation(ctx, !live)
			if live {
				rep.Posture = engine.CheckPosture(ctx)
			}
			return emit(cfg, rep)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&live, "live", false, "Apply changes instead of a dry run")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

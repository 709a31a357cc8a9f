package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/IvanShishkin/winsentry/internal/report"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"github.com/spf13/cobra"
)

// processesCmd creates the processes command
func processesCmd() *cobra.Command {
	var flags scanFlags

	cmd := &cobra.Command{
		Use:   "processes",
		Short: "Find processes impersonating system binaries",
		Long:  `List running processes that carry a reserved system process name but run from outside the system directory.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := flags.apply(cfg); err != nil {
				return err
			}

			rep := report.NewScanReport(version, report.ModeProcesses)
			rep.Processes = newScanner(cfg).ScanProcesses(context.Background())
			return emit(cfg, rep)
		},
	}

	flags.register(cmd)
	return cmd
}

// killCmd creates the kill command
func killCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "kill <pid>",
		Short: "Terminate a process and wait for it to exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if !yes && !confirm(fmt.Sprintf("Terminate process %d?", pid)) {
				gray.Println("  Cancelled")
				return nil
			}

			err = newScanner(cfg).TerminateProcess(context.Background(), pid)
			switch {
			case err == nil:
				green.Printf("  ✓ Process %d terminated\n", pid)
				return nil
			case errors.Is(err, models.ErrTerminationUnconfirmed):
				yellow.Printf("  ⚠ Termination of %d requested but the process is still running\n", pid)
				return nil
			case errors.Is(err, models.ErrAccessDenied):
				return fail(fmt.Errorf("%w (run as Administrator)", err))
			default:
				return fail(err)
			}
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func parsePID(s string) (int32, error) {
	pid, err := strconv.ParseInt(s, 10, 32)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid %q", s)
	}
	return int32(pid), nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/IvanShishkin/winsentry/internal/quarantine"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"github.com/spf13/cobra"
)

// quarantineCmd creates the quarantine command and its subcommands
func quarantineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quarantine <path>...",
		Short: "Move files into the quarantine directory",
		Long: `Move files into the quarantine directory. A file keeps its name unless it
collides with an existing entry, in which case a timestamp suffix is added.
Protected system paths are refused.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			scanner := newScanner(cfg)
			failed := 0
			for _, path := range args {
				dst, err := scanner.Quarantine(path)
				if err != nil {
					failed++
					red.Printf("  ✗ %v\n", err)
					continue
				}
				green.Printf("  ✓ %s -> %s\n", path, dst)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) could not be quarantined", failed, len(args))
			}
			return nil
		},
	}

	cmd.AddCommand(quarantineListCmd())
	cmd.AddCommand(quarantineRestoreCmd())
	return cmd
}

func quarantineListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List quarantined files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store := quarantine.NewStore(cfg.QuarantineDir, cfg.ProtectedPaths, logger)
			entries, err := store.List()
			if err != nil {
				return fail(err)
			}

			if len(entries) == 0 {
				gray.Printf("  Quarantine %s is empty\n", store.Dir())
				return nil
			}

			for _, e := range entries {
				fmt.Printf("  %s  %10d  %s\n", e.QuarantinedAt.Format("2006-01-02 15:04:05"), e.Size, e.Name)
			}
			return nil
		},
	}
}

func quarantineRestoreCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "restore <name>",
		Short: "Restore a quarantined file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if to == "" {
				if to, err = os.Getwd(); err != nil {
					return fail(err)
				}
			}

			store := quarantine.NewStore(cfg.QuarantineDir, cfg.ProtectedPaths, logger)
			dst, err := store.Restore(args[0], to)
			if err != nil {
				return fail(err)
			}

			green.Printf("  ✓ Restored %s\n", dst)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Directory to restore into (default: current directory)")
	return cmd
}

// removeCmd creates the remove command
func removeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <path>",
		Short: "Delete a flagged file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if !yes && !confirm(fmt.Sprintf("Permanently delete %s?", path)) {
				gray.Println("  Cancelled")
				return nil
			}

			err = newScanner(cfg).Remove(path)
			switch {
			case err == nil:
				green.Printf("  ✓ Removed %s\n", path)
				return nil
			case errors.Is(err, models.ErrProtectedTarget):
				return fmt.Errorf("refusing to delete protected system path %s", path)
			default:
				return fail(err)
			}
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

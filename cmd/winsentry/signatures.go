package main

import (
	"fmt"

	"github.com/IvanShishkin/winsentry/internal/filesystem"
	"github.com/IvanShishkin/winsentry/internal/signatures"
	"github.com/IvanShishkin/winsentry/pkg/models"
	"github.com/spf13/cobra"
)

// signaturesCmd creates the signatures command
func signaturesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signatures",
		Short: "Manage the signature database",
	}

	cmd.AddCommand(signaturesInitCmd())
	cmd.AddCommand(signaturesShowCmd())
	return cmd
}

func signaturesInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default signature database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			loader := signatures.NewLoader(cfg.SignaturesPath, logger)
			if filesystem.Exists(loader.Path()) && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", loader.Path())
			}

			if err := loader.Save(models.DefaultSignatureDatabase()); err != nil {
				return fail(err)
			}
			green.Printf("  ✓ Wrote %s\n", loader.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing database")
	return cmd
}

func signaturesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarize the signature database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			loader := signatures.NewLoader(cfg.SignaturesPath, logger)
			store := loader.Load()
			hashes, patterns, names := store.Stats()
			db := store.Database()

			fmt.Println()
			fmt.Printf("  %s %s\n", gray.Sprint("Database:"), loader.Path())
			fmt.Printf("  %s %d\n", gray.Sprint("Hashes:  "), hashes)
			fmt.Printf("  %s %d\n", gray.Sprint("Patterns:"), patterns)
			for _, p := range db.Patterns {
				fmt.Printf("      %s\n", p)
			}
			fmt.Printf("  %s %d\n", gray.Sprint("Names:   "), names)
			for _, n := range db.SuspiciousNames {
				fmt.Printf("      %s\n", n)
			}
			fmt.Println()
			return nil
		},
	}
}

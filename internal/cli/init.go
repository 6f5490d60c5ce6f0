package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or migrate the database",
		Long: `Create the SQLite database at --db if it does not exist and
apply any pending schema migrations. Safe to run repeatedly.

Example:
  carreira init --db ./carreira.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
	return cmd
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	slog.Info("opening database", "path", opts.Database)
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "database ready: %s\n", opts.Database)
	return nil
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the embedded competency and course catalog",
		Long: `Load the embedded catalog of competencies and courses into the
database. A no-op when competencies already exist, so an existing
catalog is never overwritten.

Example:
  carreira seed --db ./carreira.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, cmd)
		},
	}
	return cmd
}

func runSeed(opts *RootOptions, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	seeded, err := st.Seed(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to seed catalog", err)
	}
	if seeded {
		fmt.Fprintln(cmd.OutOrStdout(), "catalog seeded")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "catalog already present, nothing to do")
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marioghenriques/carreira/internal/domain"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	Email  string
	DryRun bool
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push course intentions to the enrollment platform",
		Long: `Push a user's registered course intentions to the external
enrollment platform.

Example:
  carreira sync --email ana@example.com --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "user email (required)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show what would be pushed without sending")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runSync(opts *SyncOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := lookupUser(cmd.Context(), st, opts.Email)
	if err != nil {
		return err
	}

	intentions, err := st.ListIntentionsByUser(cmd.Context(), user.ID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list intentions", err)
	}

	// TODO: Send registered intentions to the enrollment platform once
	// its API contract is settled. For now this only previews the set.

	pending := 0
	for _, in := range intentions {
		if in.Status == domain.StatusRegistered {
			pending++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "sync preview for %s:\n", user.Email)
	fmt.Fprintf(cmd.OutOrStdout(), "  registered intentions: %d of %d\n", pending, len(intentions))
	if opts.DryRun {
		return nil
	}

	return NewExitError(ExitCommandError, "enrollment platform sync not yet available - use --dry-run to preview")
}

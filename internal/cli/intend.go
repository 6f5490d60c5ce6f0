package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/marioghenriques/carreira/internal/domain"
	"github.com/marioghenriques/carreira/internal/store"
)

// NewIntendCommand creates the intend command group.
func NewIntendCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intend",
		Short: "Track course intentions",
	}
	cmd.AddCommand(newIntendAddCommand(rootOpts))
	cmd.AddCommand(newIntendListCommand(rootOpts))
	cmd.AddCommand(newIntendUpdateCommand(rootOpts))
	return cmd
}

// IntendAddOptions holds flags for intend add.
type IntendAddOptions struct {
	*RootOptions
	Email    string
	CourseID int64
	Priority int
}

func newIntendAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IntendAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an intention to take a course",
		Long: `Record that a user intends to take a course. Intending the same
course again creates a second record; each intention is its own entry.

Example:
  carreira intend add --email ana@example.com --course 4 --priority 2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntendAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "user email (required)")
	cmd.Flags().Int64Var(&opts.CourseID, "course", 0, "course id (required)")
	cmd.Flags().IntVar(&opts.Priority, "priority", 3, "priority from 1 (highest) to 5")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("course")

	return cmd
}

func runIntendAdd(opts *IntendAddOptions, cmd *cobra.Command) error {
	if opts.Priority < domain.MinPriority || opts.Priority > domain.MaxPriority {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("priority %d out of range: must be between %d and %d", opts.Priority, domain.MinPriority, domain.MaxPriority))
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := lookupUser(cmd.Context(), st, opts.Email)
	if err != nil {
		return err
	}

	id, err := st.SaveCourseIntention(cmd.Context(), user.ID, opts.CourseID, opts.Priority)
	if err != nil {
		if store.IsConstraintViolation(err) {
			return NewExitError(ExitFailure, fmt.Sprintf("no course with id %d", opts.CourseID))
		}
		return WrapExitError(ExitFailure, "failed to save intention", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "saved intention %d: course %d at priority %d\n", id, opts.CourseID, opts.Priority)
	return nil
}

// IntendListOptions holds flags for intend list.
type IntendListOptions struct {
	*RootOptions
	Email string
}

func newIntendListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IntendListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List a user's course intentions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntendList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "user email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runIntendList(opts *IntendListOptions, cmd *cobra.Command) error {
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

	return printResult(cmd.OutOrStdout(), opts.Format, intentions, func(w io.Writer) {
		fmt.Fprintf(w, "ID\tCOURSE\tPRIORITY\tSTATUS\tDATE\n")
		for _, in := range intentions {
			fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n",
				in.ID, in.CourseID, in.Priority, in.Status, in.IntentionDate.Format("2006-01-02"))
		}
	})
}

// IntendUpdateOptions holds flags for intend update.
type IntendUpdateOptions struct {
	*RootOptions
	Status string
}

func newIntendUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IntendUpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Advance an intention through its lifecycle",
		Long: `Set the status of one intention. Valid statuses are intended,
registered, completed and cancelled.

Example:
  carreira intend update 7 --status registered`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntendUpdate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "new status (required)")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func runIntendUpdate(opts *IntendUpdateOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	status := domain.IntentionStatus(opts.Status)
	if !status.Valid() {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid status %q: must be one of %v", opts.Status, domain.IntentionStatuses()))
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.UpdateIntentionStatus(cmd.Context(), id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewExitError(ExitFailure, fmt.Sprintf("no intention with id %d", id))
		}
		return WrapExitError(ExitFailure, "failed to update intention", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "intention %d is now %s\n", id, status)
	return nil
}

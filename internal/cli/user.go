package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/marioghenriques/carreira/internal/domain"
	"github.com/marioghenriques/carreira/internal/session"
	"github.com/marioghenriques/carreira/internal/store"
)

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCommand(rootOpts))
	cmd.AddCommand(newUserListCommand(rootOpts))
	cmd.AddCommand(newUserShowCommand(rootOpts))
	cmd.AddCommand(newUserDeleteCommand(rootOpts))
	cmd.AddCommand(newUserResetCommand(rootOpts))
	return cmd
}

// UserCreateOptions holds flags for user create.
type UserCreateOptions struct {
	*RootOptions
	Name    string
	Email   string
	Current string
	Target  string
}

func newUserCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new user",
		Long: `Register a new user with their current and target career levels.
The email must be unique.

Example:
  carreira user create --name "Ana Lima" --email ana@example.com --current FC-03 --target FC-05`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserCreate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "full name (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&opts.Current, "current", "", "current level, one of FC-03..FC-06 (required)")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target level, one of FC-03..FC-06 (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func runUserCreate(opts *UserCreateOptions, cmd *cobra.Command) error {
	current, err := parseLevel(opts.Current)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --current", err)
	}
	target, err := parseLevel(opts.Target)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --target", err)
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	mgr := session.NewManager(st, "")
	sess, err := mgr.Register(cmd.Context(), opts.Name, opts.Email, current, target)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return NewExitError(ExitFailure, fmt.Sprintf("email %s is already registered", opts.Email))
		}
		return WrapExitError(ExitFailure, "failed to register user", err)
	}
	slog.Debug("session started", "session_id", sess.ID, "user_id", sess.User.ID)

	return printResult(cmd.OutOrStdout(), opts.Format, sess.User, func(w io.Writer) {
		fmt.Fprintf(w, "registered user %d: %s <%s> (%s -> %s)\n",
			sess.User.ID, sess.User.Name, sess.User.Email, sess.User.CurrentLevel, sess.User.TargetLevel)
	})
}

func newUserListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List all users (admin)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserList(rootOpts, cmd)
		},
	}
	return cmd
}

func runUserList(opts *RootOptions, cmd *cobra.Command) error {
	st, _, err := requireAdmin(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	users, err := st.ListUsers(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list users", err)
	}

	return printResult(cmd.OutOrStdout(), opts.Format, users, func(w io.Writer) {
		fmt.Fprintf(w, "ID\tNAME\tEMAIL\tCURRENT\tTARGET\tCREATED\n")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				u.ID, u.Name, u.Email, u.CurrentLevel, u.TargetLevel, u.CreatedAt.Format("2006-01-02"))
		}
	})
}

// UserShowOptions holds flags for user show.
type UserShowOptions struct {
	*RootOptions
	Email string
}

// userDetail is the payload for user show.
type userDetail struct {
	User        *domain.User `json:"user"`
	Assessments int          `json:"assessments"`
	Intentions  int          `json:"intentions"`
}

func newUserShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Show one user and their activity counts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "email address (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runUserShow(opts *UserShowOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := lookupUser(cmd.Context(), st, opts.Email)
	if err != nil {
		return err
	}

	assessments, err := st.GetAssessmentsByUser(cmd.Context(), user.ID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load assessments", err)
	}
	intentions, err := st.ListIntentionsByUser(cmd.Context(), user.ID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load intentions", err)
	}

	detail := userDetail{User: user, Assessments: len(assessments), Intentions: len(intentions)}
	return printResult(cmd.OutOrStdout(), opts.Format, detail, func(w io.Writer) {
		fmt.Fprintf(w, "user %d: %s <%s>\n", user.ID, user.Name, user.Email)
		fmt.Fprintf(w, "levels: %s -> %s\n", user.CurrentLevel, user.TargetLevel)
		fmt.Fprintf(w, "registered: %s\n", user.CreatedAt.Format("2006-01-02"))
		fmt.Fprintf(w, "assessments: %d\n", detail.Assessments)
		fmt.Fprintf(w, "course intentions: %d\n", detail.Intentions)
	})
}

func newUserDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user and all their records (admin)",
		Long: `Delete a user together with their assessments and course
intentions. The three deletes run in a single transaction.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserDelete(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "email address (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runUserDelete(opts *UserShowOptions, cmd *cobra.Command) error {
	st, _, err := requireAdmin(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := lookupUser(cmd.Context(), st, opts.Email)
	if err != nil {
		return err
	}

	if err := st.DeleteUser(cmd.Context(), user.ID); err != nil {
		return WrapExitError(ExitFailure, "failed to delete user", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted user %d (%s)\n", user.ID, user.Email)
	return nil
}

func newUserResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all of a user's assessments (admin)",
		Long: `Delete every assessment for a user so they can re-assess from
scratch. Course intentions are kept.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserReset(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "email address (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runUserReset(opts *UserShowOptions, cmd *cobra.Command) error {
	st, _, err := requireAdmin(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := lookupUser(cmd.Context(), st, opts.Email)
	if err != nil {
		return err
	}

	removed, err := st.ResetUserAssessments(cmd.Context(), user.ID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to reset assessments", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %d assessments for %s\n", removed, user.Email)
	return nil
}

// lookupUser resolves an email to a user, mapping absence to an
// ExitError so commands report unknown users uniformly.
func lookupUser(ctx context.Context, st *store.Store, email string) (*domain.User, error) {
	user, err := st.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to look up user", err)
	}
	if user == nil {
		return nil, NewExitError(ExitFailure, fmt.Sprintf("no user registered with email %s", email))
	}
	return user, nil
}

// parseLevel validates a level flag value.
func parseLevel(s string) (domain.Level, error) {
	level := domain.Level(s)
	if !level.Valid() {
		return "", fmt.Errorf("level %q: must be one of %v", s, domain.Levels())
	}
	return level, nil
}

// closeStore closes a store, logging any error. For use in defers.
func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

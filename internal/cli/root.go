package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/marioghenriques/carreira/internal/session"
	"github.com/marioghenriques/carreira/internal/store"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	Database    string
	AdminSecret string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the carreira CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "carreira",
		Short: "Carreira - competency and career development tracker",
		Long: `Carreira tracks competency self-assessments against a leveled
framework, recommends courses that close competency gaps, and reports
aggregate development metrics.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "carreira.db", "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.AdminSecret, "admin-secret", "", "secret for admin-only commands")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewCompetencyCommand(opts))
	cmd.AddCommand(NewCourseCommand(opts))
	cmd.AddCommand(NewAssessCommand(opts))
	cmd.AddCommand(NewGapsCommand(opts))
	cmd.AddCommand(NewRecommendCommand(opts))
	cmd.AddCommand(NewIntendCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configureLogging sets the default slog handler based on the verbose flag.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// openStore opens the configured database and returns the store.
// Callers own the returned store and must Close it.
func openStore(opts *RootOptions) (*store.Store, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// requireAdmin opens the store and authenticates an admin session from
// the --admin-secret flag. Used by catalog mutation commands.
func requireAdmin(opts *RootOptions) (*store.Store, *session.Session, error) {
	st, err := openStore(opts)
	if err != nil {
		return nil, nil, err
	}
	mgr := session.NewManager(st, "")
	sess := mgr.Anonymous()
	if !mgr.AuthenticateAdmin(sess, opts.AdminSecret) {
		st.Close()
		return nil, nil, NewExitError(ExitCommandError, "admin authentication failed: wrong or missing --admin-secret")
	}
	return st, sess, nil
}

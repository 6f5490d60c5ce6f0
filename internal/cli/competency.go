package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marioghenriques/carreira/internal/domain"
	"github.com/marioghenriques/carreira/internal/store"
)

// NewCompetencyCommand creates the competency command group.
func NewCompetencyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "competency",
		Short: "Browse and manage the competency framework",
	}
	cmd.AddCommand(newCompetencyListCommand(rootOpts))
	cmd.AddCommand(newCompetencyAddCommand(rootOpts))
	cmd.AddCommand(newCompetencyDeleteCommand(rootOpts))
	return cmd
}

// CompetencyListOptions holds flags for competency list.
type CompetencyListOptions struct {
	*RootOptions
	Level    string
	Category string
}

func newCompetencyListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompetencyListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List competencies, optionally filtered",
		Long: `List competencies in the framework, ordered by level, category
and name. Both filters are optional and combine.

Example:
  carreira competency list --level FC-04 --category technical`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompetencyList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Level, "level", "", "filter by level (FC-03..FC-06)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "filter by category (technical|behavioral|strategic)")

	return cmd
}

func runCompetencyList(opts *CompetencyListOptions, cmd *cobra.Command) error {
	var filter store.CompetencyFilter
	if opts.Level != "" {
		level, err := parseLevel(opts.Level)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --level", err)
		}
		filter.Level = level
	}
	if opts.Category != "" {
		category, err := parseCategory(opts.Category)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --category", err)
		}
		filter.Category = category
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	comps, err := st.ListCompetencies(cmd.Context(), filter)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list competencies", err)
	}

	return printResult(cmd.OutOrStdout(), opts.Format, comps, func(w io.Writer) {
		fmt.Fprintf(w, "ID\tLEVEL\tCATEGORY\tNAME\tWEIGHT\n")
		for _, c := range comps {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\n", c.ID, c.Level, c.Category, c.Name, c.Weight)
		}
	})
}

// CompetencyAddOptions holds flags for competency add.
type CompetencyAddOptions struct {
	*RootOptions
	Name        string
	Description string
	Level       string
	Category    string
	Weight      float64
}

func newCompetencyAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompetencyAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Add a competency to the framework (admin)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompetencyAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "competency name (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "competency description")
	cmd.Flags().StringVar(&opts.Level, "level", "", "level (FC-03..FC-06, required)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "category (technical|behavioral|strategic, required)")
	cmd.Flags().Float64Var(&opts.Weight, "weight", 1.0, "relative weight, must be positive")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runCompetencyAdd(opts *CompetencyAddOptions, cmd *cobra.Command) error {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --level", err)
	}
	category, err := parseCategory(opts.Category)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --category", err)
	}

	st, _, err := requireAdmin(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	id, err := st.AddCompetency(cmd.Context(), opts.Name, opts.Description, category, level, opts.Weight)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to add competency", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added competency %d: %s (%s, %s)\n", id, opts.Name, level, category)
	return nil
}

func newCompetencyDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a competency (admin)",
		Long: `Delete a competency by id. Fails while any assessment still
references it; courses keep the stale id and skip it on lookup.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompetencyDelete(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runCompetencyDelete(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	st, _, err := requireAdmin(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.DeleteCompetency(cmd.Context(), id); err != nil {
		if store.IsConstraintViolation(err) {
			return NewExitError(ExitFailure, fmt.Sprintf("competency %d still has assessments", id))
		}
		return WrapExitError(ExitFailure, "failed to delete competency", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted competency %d\n", id)
	return nil
}

// parseCategory validates a category flag value.
func parseCategory(s string) (domain.Category, error) {
	category := domain.Category(s)
	if !category.Valid() {
		return "", fmt.Errorf("category %q: must be one of %v", s, domain.Categories())
	}
	return category, nil
}

// parseID parses a positional numeric id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", arg))
	}
	return id, nil
}

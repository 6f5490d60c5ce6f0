package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marioghenriques/carreira/internal/domain"
	"github.com/marioghenriques/carreira/internal/store"
)

// NewCourseCommand creates the course command group.
func NewCourseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Browse and manage the course catalog",
	}
	cmd.AddCommand(newCourseListCommand(rootOpts))
	cmd.AddCommand(newCourseAddCommand(rootOpts))
	cmd.AddCommand(newCourseDeleteCommand(rootOpts))
	cmd.AddCommand(newCourseToggleCommand(rootOpts))
	return cmd
}

// CourseListOptions holds flags for course list.
type CourseListOptions struct {
	*RootOptions
	All bool
}

func newCourseListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CourseListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List courses in the catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCourseList(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "include deactivated courses")

	return cmd
}

func runCourseList(opts *CourseListOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	var courses []domain.Course
	if opts.All {
		courses, err = st.ListCourses(cmd.Context())
	} else {
		courses, err = st.ListActiveCourses(cmd.Context())
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list courses", err)
	}

	return printResult(cmd.OutOrStdout(), opts.Format, courses, func(w io.Writer) {
		fmt.Fprintf(w, "ID\tNAME\tHOURS\tCATEGORY\tCOMPETENCIES\tACTIVE\n")
		for _, c := range courses {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%t\n",
				c.ID, c.Name, c.DurationHours, c.Category, formatIDs(c.CompetencyIDs), c.IsActive)
		}
	})
}

// CourseAddOptions holds flags for course add.
type CourseAddOptions struct {
	*RootOptions
	Name          string
	Description   string
	Duration      int
	Category      string
	CompetencyIDs []int64
}

func newCourseAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CourseAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a course to the catalog (admin)",
		Long: `Add a course. The competency list names the framework
competencies the course develops and drives recommendation relevance.

Example:
  carreira course add --name "Go Avançado" --duration 24 --category technical --competencies 1,2,5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCourseAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "course name (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "course description")
	cmd.Flags().IntVar(&opts.Duration, "duration", 0, "duration in hours, must be positive (required)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "course category (required)")
	cmd.Flags().Int64SliceVar(&opts.CompetencyIDs, "competencies", nil, "competency ids the course develops")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("duration")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runCourseAdd(opts *CourseAddOptions, cmd *cobra.Command) error {
	st, _, err := requireAdmin(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	id, err := st.AddCourse(cmd.Context(), opts.Name, opts.Description, opts.Duration, opts.Category, opts.CompetencyIDs)
	if err != nil {
		if store.IsCheckViolation(err) {
			return NewExitError(ExitFailure, "duration must be a positive number of hours")
		}
		return WrapExitError(ExitFailure, "failed to add course", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added course %d: %s (%dh)\n", id, opts.Name, opts.Duration)
	return nil
}

func newCourseDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a course (admin)",
		Long: `Delete a course by id. Fails while any intention still
references it; deactivate with toggle instead to retire a course.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCourseDelete(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runCourseDelete(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	st, _, err := requireAdmin(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.DeleteCourse(cmd.Context(), id); err != nil {
		if store.IsConstraintViolation(err) {
			return NewExitError(ExitFailure, fmt.Sprintf("course %d still has intentions; toggle it inactive instead", id))
		}
		return WrapExitError(ExitFailure, "failed to delete course", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted course %d\n", id)
	return nil
}

func newCourseToggleCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a course between active and inactive (admin)",
		Long: `Flip a course's visibility. Inactive courses disappear from
search and recommendations but keep their history.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCourseToggle(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runCourseToggle(opts *RootOptions, arg string, cmd *cobra.Command) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	st, _, err := requireAdmin(opts)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if err := st.ToggleCourseActive(cmd.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NewExitError(ExitFailure, fmt.Sprintf("no course with id %d", id))
		}
		return WrapExitError(ExitFailure, "failed to toggle course", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "toggled course %d\n", id)
	return nil
}

// formatIDs renders a competency id list for table output.
func formatIDs(ids []int64) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ",")
}

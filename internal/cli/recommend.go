package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marioghenriques/carreira/internal/advisor"
	"github.com/marioghenriques/carreira/internal/domain"
)

// RecommendOptions holds flags for the recommend command.
type RecommendOptions struct {
	*RootOptions
	Email    string
	Query    string
	Category string
	All      bool
}

// recommendation is one ranked course with its gap impact.
type recommendation struct {
	Course    domain.Course       `json:"course"`
	Relevance int                 `json:"relevance"`
	Match     int                 `json:"match,omitempty"`
	Addressed []domain.Competency `json:"addressed,omitempty"`
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecommendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend courses that close a user's competency gaps",
		Long: `Rank active courses by how many of the user's target-level
competency gaps each one addresses. Courses covering no gap are dropped
unless --all is given. An optional text query and category narrow the
candidate set; the query also breaks relevance ties.

Example:
  carreira recommend --email ana@example.com --query liderança`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "user email (required)")
	cmd.Flags().StringVar(&opts.Query, "query", "", "free-text filter over name, description and category (case-insensitive, accent-sensitive)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "exact category filter")
	cmd.Flags().BoolVar(&opts.All, "all", false, "include courses that address no gap")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runRecommend(opts *RecommendOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closeStore(st)

	user, err := lookupUser(cmd.Context(), st, opts.Email)
	if err != nil {
		return err
	}

	target, assessments, err := loadGapInputs(cmd, st, user)
	if err != nil {
		return err
	}
	gaps := advisor.ComputeGaps(target, assessments)

	courses, err := st.ListActiveCourses(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list courses", err)
	}

	candidates := advisor.Filter(courses, opts.Query, opts.Category)
	ranked := advisor.RankCourses(candidates, gaps, opts.Query)
	if !opts.All {
		ranked = advisor.Recommended(ranked)
	}

	recs := make([]recommendation, 0, len(ranked))
	for _, rc := range ranked {
		impact := advisor.CourseImpact(rc.Course, target, assessments)
		recs = append(recs, recommendation{
			Course:    rc.Course,
			Relevance: rc.Relevance,
			Match:     rc.Match,
			Addressed: impact.Addressed,
		})
	}

	return printResult(cmd.OutOrStdout(), opts.Format, recs, func(w io.Writer) {
		if len(recs) == 0 {
			fmt.Fprintf(w, "no courses address open gaps for %s\n", user.Email)
			return
		}
		fmt.Fprintf(w, "ID\tCOURSE\tHOURS\tGAPS\tADDRESSES\n")
		for _, rec := range recs {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n",
				rec.Course.ID, rec.Course.Name, rec.Course.DurationHours, rec.Relevance, formatCompetencyNames(rec.Addressed))
		}
	})
}

// formatCompetencyNames renders addressed competency names for table output.
func formatCompetencyNames(comps []domain.Competency) string {
	if len(comps) == 0 {
		return "-"
	}
	names := make([]string, len(comps))
	for i, comp := range comps {
		names[i] = comp.Name
	}
	return strings.Join(names, "; ")
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/marioghenriques/carreira/internal/advisor"
	"github.com/marioghenriques/carreira/internal/domain"
	"github.com/marioghenriques/carreira/internal/store"
)

// AssessOptions holds flags for the assess command.
type AssessOptions struct {
	*RootOptions
	Email        string
	CompetencyID int64
	Score        int
	Notes        string
}

// NewAssessCommand creates the assess command.
func NewAssessCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AssessOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Record a competency self-assessment",
		Long: `Record a self-assessment score for one competency. Re-assessing
the same competency replaces the previous score and timestamp; there is
at most one assessment per user and competency.

Example:
  carreira assess --email ana@example.com --competency 3 --score 4 --notes "após o projeto X"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssess(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "user email (required)")
	cmd.Flags().Int64Var(&opts.CompetencyID, "competency", 0, "competency id (required)")
	cmd.Flags().IntVar(&opts.Score, "score", 0, "score from 1 to 5 (required)")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("competency")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func runAssess(opts *AssessOptions, cmd *cobra.Command) error {
	if opts.Score < domain.MinScore || opts.Score > domain.MaxScore {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("score %d out of range: must be between %d and %d", opts.Score, domain.MinScore, domain.MaxScore))
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

	comp, err := st.GetCompetencyByID(cmd.Context(), opts.CompetencyID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to look up competency", err)
	}
	if comp == nil {
		return NewExitError(ExitFailure, fmt.Sprintf("no competency with id %d", opts.CompetencyID))
	}

	if err := st.UpsertAssessment(cmd.Context(), user.ID, comp.ID, opts.Score, opts.Notes); err != nil {
		return WrapExitError(ExitFailure, "failed to record assessment", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "assessed %q at %d/5 (%s)\n", comp.Name, opts.Score, advisor.ScoreStatus(opts.Score))
	return nil
}

// GapsOptions holds flags for the gaps command.
type GapsOptions struct {
	*RootOptions
	Email string
}

// gapLine is one competency row in the gaps report.
type gapLine struct {
	Competency domain.Competency `json:"competency"`
	Score      int               `json:"score"` // 0 when unassessed
	Status     string            `json:"status"`
}

// gapsReport is the payload for the gaps command.
type gapsReport struct {
	TargetLevel domain.Level    `json:"target_level"`
	Lines       []gapLine       `json:"competencies"`
	Summary     advisor.Summary `json:"summary"`
}

// NewGapsCommand creates the gaps command.
func NewGapsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GapsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Show a user's competency gaps at their target level",
		Long: `Compare a user's assessments against every competency of their
target level. A competency counts as a gap while it is unassessed or
scored below mastery.

Example:
  carreira gaps --email ana@example.com`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGaps(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "user email (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runGaps(opts *GapsOptions, cmd *cobra.Command) error {
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

	report := gapsReport{
		TargetLevel: user.TargetLevel,
		Lines:       make([]gapLine, 0, len(target)),
		Summary:     advisor.Summarize(target, assessments),
	}
	for _, comp := range target {
		line := gapLine{Competency: comp, Status: advisor.StatusNeeded.String()}
		if a, ok := assessments[comp.ID]; ok {
			line.Score = a.Score
			line.Status = advisor.ScoreStatus(a.Score).String()
		}
		report.Lines = append(report.Lines, line)
	}

	return printResult(cmd.OutOrStdout(), opts.Format, report, func(w io.Writer) {
		fmt.Fprintf(w, "target level %s for %s\n", report.TargetLevel, user.Name)
		fmt.Fprintf(w, "ID\tCOMPETENCY\tCATEGORY\tSCORE\tSTATUS\n")
		for _, line := range report.Lines {
			score := "-"
			if line.Score > 0 {
				score = fmt.Sprintf("%d/5", line.Score)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				line.Competency.ID, line.Competency.Name, line.Competency.Category, score, line.Status)
		}
		s := report.Summary
		fmt.Fprintf(w, "mastered %d, developing %d, needed %d of %d (%.0f%% complete)\n",
			s.Mastered, s.Developing, s.Needed, s.Total, s.Completion)
	})
}

// loadGapInputs fetches the target-level competencies and the user's
// assessments, the two inputs every gap computation needs.
func loadGapInputs(cmd *cobra.Command, st *store.Store, user *domain.User) ([]domain.Competency, map[int64]domain.Assessment, error) {
	target, err := st.ListCompetencies(cmd.Context(), store.CompetencyFilter{Level: user.TargetLevel})
	if err != nil {
		return nil, nil, WrapExitError(ExitFailure, "failed to load target competencies", err)
	}
	assessments, err := st.GetAssessmentsByUser(cmd.Context(), user.ID)
	if err != nil {
		return nil, nil, WrapExitError(ExitFailure, "failed to load assessments", err)
	}
	return target, assessments, nil
}

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/marioghenriques/carreira/internal/store"
)

// NewReportCommand creates the report command group.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate reports over all users and the catalog",
	}
	cmd.AddCommand(newReportSummaryCommand(rootOpts))
	cmd.AddCommand(newReportLevelsCommand(rootOpts))
	cmd.AddCommand(newReportScoresCommand(rootOpts))
	cmd.AddCommand(newReportDemandCommand(rootOpts))
	cmd.AddCommand(newReportEngagementCommand(rootOpts))
	cmd.AddCommand(newReportProgressCommand(rootOpts))
	cmd.AddCommand(newReportTrendsCommand(rootOpts))
	return cmd
}

// reportRunE wraps a report body with the shared open/close plumbing.
func reportRunE(rootOpts *RootOptions, body func(cmd *cobra.Command, st *store.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		st, err := openStore(rootOpts)
		if err != nil {
			return err
		}
		defer closeStore(st)
		return body(cmd, st)
	}
}

// summaryReport is the payload for report summary.
type summaryReport struct {
	Counts       store.TableCounts `json:"counts"`
	AverageScore float64           `json:"average_score"`
	HasScores    bool              `json:"has_scores"`
}

func newReportSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "summary",
		Short:         "Row totals and the overall average assessment score",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: reportRunE(rootOpts, func(cmd *cobra.Command, st *store.Store) error {
			counts, err := st.Counts(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to count tables", err)
			}
			avg, ok, err := st.AverageAssessmentScore(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to compute average score", err)
			}

			report := summaryReport{Counts: counts, AverageScore: avg, HasScores: ok}
			return printResult(cmd.OutOrStdout(), rootOpts.Format, report, func(w io.Writer) {
				fmt.Fprintf(w, "users\t%d\n", counts.Users)
				fmt.Fprintf(w, "competencies\t%d\n", counts.Competencies)
				fmt.Fprintf(w, "courses\t%d\n", counts.Courses)
				fmt.Fprintf(w, "assessments\t%d\n", counts.Assessments)
				fmt.Fprintf(w, "intentions\t%d\n", counts.Intentions)
				if ok {
					fmt.Fprintf(w, "average score\t%.2f\n", avg)
				} else {
					fmt.Fprintf(w, "average score\t-\n")
				}
			})
		}),
	}
}

// levelsReport is the payload for report levels.
type levelsReport struct {
	Current     []store.LevelCount       `json:"current"`
	Target      []store.LevelCount       `json:"target"`
	Progression []store.LevelProgression `json:"progression"`
}

func newReportLevelsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "levels",
		Short:         "User distribution across current and target levels",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: reportRunE(rootOpts, func(cmd *cobra.Command, st *store.Store) error {
			current, err := st.UsersByCurrentLevel(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to group by current level", err)
			}
			target, err := st.UsersByTargetLevel(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to group by target level", err)
			}
			progression, err := st.LevelProgressionMatrix(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to build progression matrix", err)
			}

			report := levelsReport{Current: current, Target: target, Progression: progression}
			return printResult(cmd.OutOrStdout(), rootOpts.Format, report, func(w io.Writer) {
				fmt.Fprintf(w, "LEVEL\tCURRENT\n")
				for _, lc := range current {
					fmt.Fprintf(w, "%s\t%d\n", lc.Level, lc.Count)
				}
				fmt.Fprintf(w, "LEVEL\tTARGET\n")
				for _, lc := range target {
					fmt.Fprintf(w, "%s\t%d\n", lc.Level, lc.Count)
				}
				fmt.Fprintf(w, "FROM\tTO\tUSERS\n")
				for _, p := range progression {
					fmt.Fprintf(w, "%s\t%s\t%d\n", p.CurrentLevel, p.TargetLevel, p.Count)
				}
			})
		}),
	}
}

// scoresReport is the payload for report scores.
type scoresReport struct {
	Histogram []store.ScoreCount        `json:"histogram"`
	Averages  []store.CompetencyAverage `json:"averages"`
}

func newReportScoresCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "scores",
		Short:         "Assessment score histogram and per-competency averages",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: reportRunE(rootOpts, func(cmd *cobra.Command, st *store.Store) error {
			histogram, err := st.AssessmentScoreHistogram(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to build score histogram", err)
			}
			averages, err := st.CompetencyAverages(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to compute competency averages", err)
			}

			report := scoresReport{Histogram: histogram, Averages: averages}
			return printResult(cmd.OutOrStdout(), rootOpts.Format, report, func(w io.Writer) {
				fmt.Fprintf(w, "SCORE\tCOUNT\n")
				for _, sc := range histogram {
					fmt.Fprintf(w, "%d\t%d\n", sc.Score, sc.Count)
				}
				fmt.Fprintf(w, "COMPETENCY\tLEVEL\tAVG\tSAMPLES\n")
				for _, ca := range averages {
					avg := "-"
					if ca.Samples > 0 {
						avg = fmt.Sprintf("%.2f", ca.AverageScore)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", ca.Name, ca.Level, avg, ca.Samples)
				}
			})
		}),
	}
}

// demandReport is the payload for report demand.
type demandReport struct {
	Courses  []store.CourseDemand `json:"courses"`
	Statuses []store.StatusCount  `json:"statuses"`
}

func newReportDemandCommand(rootOpts *RootOptions) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:           "demand",
		Short:         "Course demand by intention count",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: reportRunE(rootOpts, func(cmd *cobra.Command, st *store.Store) error {
			courses, err := st.TopCoursesByDemand(cmd.Context(), top)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to rank course demand", err)
			}
			statuses, err := st.IntentionStatusHistogram(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to build status histogram", err)
			}

			report := demandReport{Courses: courses, Statuses: statuses}
			return printResult(cmd.OutOrStdout(), rootOpts.Format, report, func(w io.Writer) {
				fmt.Fprintf(w, "COURSE\tCATEGORY\tINTENTIONS\tACTIVE\n")
				for _, cd := range courses {
					fmt.Fprintf(w, "%s\t%s\t%d\t%t\n", cd.Name, cd.Category, cd.Intentions, cd.IsActive)
				}
				fmt.Fprintf(w, "STATUS\tCOUNT\n")
				for _, sc := range statuses {
					fmt.Fprintf(w, "%s\t%d\n", sc.Status, sc.Count)
				}
			})
		}),
	}

	cmd.Flags().IntVar(&top, "top", 10, "number of courses to include")

	return cmd
}

func newReportEngagementCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "engagement",
		Short:         "Per-user activity counts and last-seen timestamps",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: reportRunE(rootOpts, func(cmd *cobra.Command, st *store.Store) error {
			rows, err := st.UserEngagementReport(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to build engagement report", err)
			}

			return printResult(cmd.OutOrStdout(), rootOpts.Format, rows, func(w io.Writer) {
				fmt.Fprintf(w, "USER\tASSESSMENTS\tINTENTIONS\tLAST ASSESSED\tLAST INTENDED\n")
				for _, r := range rows {
					fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
						r.Name, r.Assessments, r.Intentions, formatDay(r.LastAssessment), formatDay(r.LastIntention))
				}
			})
		}),
	}
}

func newReportProgressCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "progress",
		Short:         "Per-user assessed competency counts and averages",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: reportRunE(rootOpts, func(cmd *cobra.Command, st *store.Store) error {
			rows, err := st.UserProgressReport(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to build progress report", err)
			}

			return printResult(cmd.OutOrStdout(), rootOpts.Format, rows, func(w io.Writer) {
				fmt.Fprintf(w, "USER\tLEVELS\tASSESSED\tAVG\n")
				for _, r := range rows {
					avg := "-"
					if r.AssessedCompetencies > 0 {
						avg = fmt.Sprintf("%.2f", r.AverageScore)
					}
					fmt.Fprintf(w, "%s\t%s -> %s\t%d\t%s\n",
						r.Name, r.CurrentLevel, r.TargetLevel, r.AssessedCompetencies, avg)
				}
			})
		}),
	}
}

func newReportTrendsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "trends",
		Short:         "Monthly intention activity over the last year",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: reportRunE(rootOpts, func(cmd *cobra.Command, st *store.Store) error {
			months, err := st.MonthlyIntentionTrends(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "failed to build monthly trends", err)
			}

			return printResult(cmd.OutOrStdout(), rootOpts.Format, months, func(w io.Writer) {
				fmt.Fprintf(w, "MONTH\tINTENTIONS\tACTIVE USERS\n")
				for _, m := range months {
					fmt.Fprintf(w, "%s\t%d\t%d\n", m.Month, m.Intentions, m.ActiveUsers)
				}
			})
		}),
	}
}

// formatDay renders an optional timestamp as a date, or "-" when absent.
func formatDay(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), configFrom(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			summary := a.vocab.Summary(cmd.Context())
			eff := a.vocab.Efficiency(cmd.Context())

			last := "never"
			if summary.LastStudyDate != nil {
				last = *summary.LastStudyDate
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Words\t%d\n", summary.TotalWords)
			fmt.Fprintf(tw, "  mastered\t%d\n", summary.MasteredWords)
			fmt.Fprintf(tw, "  learning\t%d\n", summary.LearningWords)
			fmt.Fprintf(tw, "  new\t%d\n", summary.NewWords)
			fmt.Fprintf(tw, "Due for review\t%d\n", summary.ReviewDue)
			fmt.Fprintf(tw, "Study days\t%d\n", summary.StudyDays)
			fmt.Fprintf(tw, "Study time\t%s\n", (time.Duration(summary.TotalStudyTimeMs) * time.Millisecond).Round(time.Second))
			fmt.Fprintf(tw, "Average accuracy\t%d%%\n", summary.AverageAccuracy)
			fmt.Fprintf(tw, "Last studied\t%s\n", last)
			fmt.Fprintf(tw, "Efficiency\t%s (%.1f words/min)\n", eff.Rating, eff.WordsPerMinute)
			if err := tw.Flush(); err != nil {
				return err
			}
			if len(eff.Recommendations) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "\n- %s\n", strings.Join(eff.Recommendations, "\n- "))
			}
			return nil
		},
	}
}

func newScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "List upcoming reviews by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			if days < 1 {
				return fmt.Errorf("--days must be at least 1 (got %d)", days)
			}

			a, err := openApp(cmd.Context(), configFrom(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			schedule := a.vocab.Schedule(cmd.Context(), days)
			if len(schedule) == 0 {
				fmt.Fprintf(out, "no reviews in the next %d days\n", days)
				return nil
			}
			for _, day := range schedule {
				fmt.Fprintf(out, "%s (%d)\n", day.Date, len(day.Entries))
				for _, e := range day.Entries {
					fmt.Fprintf(out, "  %-20s priority %d\n", e.Term, e.Priority)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("days", 7, "Number of days to plan ahead")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "vocabflash", Version)
			return err
		},
	}
}

// cmd/tools/matchctl/rank.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"match-workers/internal/matching/driver"
)

var (
	rankCandidatePath  string
	rankJobsPath       string
	rankJobPath        string
	rankCandidatesPath string
	rankTop            int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank jobs for a candidate (--candidate --jobs) or candidates for a job (--job --candidates)",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := driver.New(driver.DefaultConfig(), driver.Deps{Logger: log})
		out := cmd.OutOrStdout()

		switch {
		case rankCandidatePath != "" && rankJobsPath != "":
			c, err := loadCandidate(rankCandidatePath)
			if err != nil {
				return err
			}
			jobs, err := loadJobs(rankJobsPath)
			if err != nil {
				return err
			}
			ranked, err := d.BestMatchesForCandidate(cmd.Context(), c, jobs, rankTop)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out, ranked)
			}
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Jobs for candidate %s", c.ID)))
			for i, m := range ranked {
				fmt.Fprintf(out, "  %2d. %s  %s %s\n", i+1, renderScore(m.Result.OverallScore), m.Job.ID, mutedStyle.Render(m.Job.Title))
			}
			return nil

		case rankJobPath != "" && rankCandidatesPath != "":
			j, err := loadJob(rankJobPath)
			if err != nil {
				return err
			}
			cands, err := loadCandidates(rankCandidatesPath)
			if err != nil {
				return err
			}
			ranked, err := d.BestCandidatesForJob(cmd.Context(), j, cands, rankTop)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(out, ranked)
			}
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Candidates for job %s", j.ID)))
			for i, m := range ranked {
				fmt.Fprintf(out, "  %2d. %s  %s %s\n", i+1, renderScore(m.Result.OverallScore), m.Candidate.ID, mutedStyle.Render(m.Candidate.Name))
			}
			return nil
		}

		return fmt.Errorf("use --candidate with --jobs, or --job with --candidates")
	},
}

func init() {
	rankCmd.Flags().StringVar(&rankCandidatePath, "candidate", "", "candidate JSON file")
	rankCmd.Flags().StringVar(&rankJobsPath, "jobs", "", "JSON file with a list of jobs")
	rankCmd.Flags().StringVar(&rankJobPath, "job", "", "job JSON file")
	rankCmd.Flags().StringVar(&rankCandidatesPath, "candidates", "", "JSON file with a list of candidates")
	rankCmd.Flags().IntVar(&rankTop, "top", 10, "how many results to keep (0 keeps all)")
}

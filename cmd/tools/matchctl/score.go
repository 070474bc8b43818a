// cmd/tools/matchctl/score.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"match-workers/internal/matching/driver"
	"match-workers/internal/models"
)

var (
	scoreCandidatePath string
	scoreJobPath       string
	scorePoolPath      string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one candidate against a job or a talent pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		if (scoreJobPath == "") == (scorePoolPath == "") {
			return fmt.Errorf("exactly one of --job or --pool is required")
		}

		c, err := loadCandidate(scoreCandidatePath)
		if err != nil {
			return err
		}

		var j models.Job
		if scoreJobPath != "" {
			if j, err = loadJob(scoreJobPath); err != nil {
				return err
			}
		} else {
			var pool models.PoolCriteria
			if err := readJSONFile(scorePoolPath, &pool); err != nil {
				return err
			}
			j = models.Job{ID: "pool", Status: models.JobStatusActive, Criteria: pool.ToJobCriteria()}
		}

		d := driver.New(driver.DefaultConfig(), driver.Deps{Logger: log})
		res, err := d.Score(cmd.Context(), c, j)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(fmt.Sprintf("Candidate %s vs %s", c.ID, j.ID)))
		printMatchResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreCandidatePath, "candidate", "", "candidate JSON file")
	scoreCmd.Flags().StringVar(&scoreJobPath, "job", "", "job JSON file")
	scoreCmd.Flags().StringVar(&scorePoolPath, "pool", "", "talent pool criteria JSON file")
	_ = scoreCmd.MarkFlagRequired("candidate")
}

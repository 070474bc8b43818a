// cmd/tools/matchctl/generate.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"match-workers/internal/common/config"
	"match-workers/internal/common/database"
	"match-workers/internal/matching/driver"
	"match-workers/internal/store"
)

var (
	genEmployer       string
	genJobsPath       string
	genCandidatesPath string
	genDBPath         string
	genMinScore       float64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Load jobs and candidates into a SQLite store and write the employer's missing matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		lite, err := database.NewSQLite(config.SQLiteConfig{Path: genDBPath})
		if err != nil {
			return err
		}
		defer lite.Close()

		s := store.New(lite.DB, store.SQLite)
		if err := s.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		if genJobsPath != "" {
			jobs, err := loadJobs(genJobsPath)
			if err != nil {
				return err
			}
			for _, j := range jobs {
				if err := s.SaveJob(ctx, j); err != nil {
					return err
				}
			}
		}
		if genCandidatesPath != "" {
			cands, err := loadCandidates(genCandidatesPath)
			if err != nil {
				return err
			}
			for _, c := range cands {
				if err := s.SaveCandidate(ctx, c); err != nil {
					return err
				}
			}
		}

		cfg := driver.DefaultConfig()
		cfg.MinScore = genMinScore
		d := driver.New(cfg, driver.Deps{
			Store:      s,
			Jobs:       s,
			Candidates: s,
			Guard:      driver.NewMemoryGuard(),
			Logger:     log,
		})

		tally, err := d.GenerateMissingMatches(ctx, genEmployer)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), tally)
		}
		printTally(cmd.OutOrStdout(), genEmployer, tally)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&genEmployer, "employer", "", "employer id")
	generateCmd.Flags().StringVar(&genJobsPath, "jobs", "", "JSON file with jobs to load first")
	generateCmd.Flags().StringVar(&genCandidatesPath, "candidates", "", "JSON file with candidates to load first")
	generateCmd.Flags().StringVar(&genDBPath, "db", "matches.db", "SQLite database path")
	generateCmd.Flags().Float64Var(&genMinScore, "min-score", 50, "lowest overall score that is stored")
	_ = generateCmd.MarkFlagRequired("employer")
}

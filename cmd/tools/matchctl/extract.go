// cmd/tools/matchctl/extract.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"match-workers/internal/resume"
)

var useNER bool

var extractCmd = &cobra.Command{
	Use:   "extract <resume.txt>",
	Short: "Extract candidate features from a plain-text resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read resume: %w", err)
		}

		opts := resume.Options{}
		if useNER {
			opts.Names = resume.ProseRecognizer{}
		}
		ext := resume.New(opts).Extract(string(text))

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), ext)
		}
		printExtraction(cmd.OutOrStdout(), ext)
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&useNER, "ner", false, "find the candidate name with the named-entity model")
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/records"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score one résumé against one job posting and print the analysis as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("resume", "r", "", "path to the résumé JSON file")
	matchCmd.Flags().StringP("job", "J", "", "path to the job posting JSON file (object or array)")
	matchCmd.Flags().String("job-id", "", "job ID to score when the file holds several postings (default is the first)")

	matchCmd.MarkFlagRequired("resume")
	matchCmd.MarkFlagRequired("job")
}

func match(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()

	resume, err := records.LoadResume(cmd.Flag("resume").Value.String())
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err))
	}

	jobs, err := records.LoadJobs(cmd.Flag("job").Value.String())
	if err != nil {
		logger.Fatal("loading job", zap.Error(err))
	}

	job := jobs.Items[0]
	if id := cmd.Flag("job-id").Value.String(); id != "" {
		if job = jobs.FindByID(id); job == nil {
			logger.Fatal("job with given id not found", zap.String("job_id", id))
		}
	}

	engine, err := newEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating engine", zap.Error(err))
	}

	analysis, err := engine.Analyze(ctx, resume, job)
	if err != nil {
		logger.Fatal("scoring", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		logger.Fatal("encoding analysis", zap.Error(err))
	}
	fmt.Println(string(pretty))
}

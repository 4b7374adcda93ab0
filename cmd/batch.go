package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/filtering"
	"github.com/spigell/job-matcher/internal/records"
)

const (
	PromptReport              = "Report by recommendation"
	PromptAnalysesToFile      = "Dump analyses to file"
	PromptAppendToExcludeFile = "Append skipped jobs to exclude file"
	PromptExit                = "Exit"
)

var errExit = errors.New("exit requested")

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score a résumé against many job postings, filter and rank the results",
	Run: func(cmd *cobra.Command, _ []string) {
		batch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("resume", "r", "", "path to the résumé JSON file")
	batchCmd.Flags().StringP("jobs", "J", "", "path to the job postings JSON file")
	batchCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for actions; print the report and dump analyses to a file")
	batchCmd.Flags().StringP("exclude-file", "e", "", "file with jobs to exclude. Default is unset.")
	batchCmd.Flags().StringP("min-recommendation", "m", "", "drop analyses below this recommendation (apply, maybe, skip)")
	batchCmd.Flags().IntP("concurrency", "c", 0, "number of jobs scored in parallel (overrides batch.concurrency)")

	batchCmd.MarkFlagRequired("resume")
	batchCmd.MarkFlagRequired("jobs")

	viper.BindPFlag("filters.exclude-file", batchCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("filters.minimum-recommendation", batchCmd.Flags().Lookup("min-recommendation"))
	viper.BindPFlag("batch.concurrency", batchCmd.Flags().Lookup("concurrency"))
}

func batch(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()

	logger.Info("starting the job-matcher batch", zap.String("version", version))

	resume, err := records.LoadResume(cmd.Flag("resume").Value.String())
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err))
	}

	jobs, err := records.LoadJobs(cmd.Flag("jobs").Value.String())
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err))
	}
	logger.Info("jobs loaded", zap.Int("count", jobs.Len()))

	// Run mutates the job list; keep the originals for the exclude file.
	all := &records.Jobs{Items: append([]*records.JobRecord(nil), jobs.Items...)}

	engine, err := newEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating engine", zap.Error(err))
	}

	deps := filtering.Deps{Logger: logger, Resume: resume, Scorer: engine}
	result, err := filtering.Run(ctx, &config.Filters, deps, filtering.Default(), filtering.NewBatch(jobs))
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	result.SortByOverall()

	if result.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs left after filters"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		for _, action := range []string{PromptReport, PromptAnalysesToFile} {
			if err := handleAction(action, logger, config, result, all); err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}
		return
	}

	items := []string{PromptReport, PromptAnalysesToFile}
	if config.Filters.ExcludeFile != "" {
		items = append(items, PromptAppendToExcludeFile)
	}
	prompt := promptui.Select{
		Label: "Choose an action",
		Items: append(items, PromptExit),
	}

	for {
		logger.Info("current list of analyses", zap.Int("count", result.Len()))

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, result, all); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, result *filtering.Batch, all *records.Jobs) error {
	switch action {
	case PromptReport:
		pretty, _ := json.MarshalIndent(result.ReportByRecommendation(), "", "  ")
		logger.Info(string(pretty), zap.Int("analyses count", result.Len()))
		return nil
	case PromptAnalysesToFile:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendSkipped(logger, config.Filters.ExcludeFile, result, all)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// appendSkipped records the jobs dropped by the filters in the exclude file
// so later batches do not score them again.
func appendSkipped(logger *zap.Logger, path string, result *filtering.Batch, all *records.Jobs) error {
	skipped := result.DroppedJobs(all)
	if skipped.Len() == 0 {
		logger.Info("nothing to append to exclude file")
		return nil
	}

	excluded, err := records.LoadExcluded(path)
	if err != nil {
		return err
	}

	excluded.Append(skipped.Excluded(records.ExcludeActorMatcher, "dropped by filters"))

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to exclude file",
		zap.String("filename", path),
		zap.Int("count", skipped.Len()),
	)
	return nil
}

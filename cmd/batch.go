package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/resumes"
	"github.com/spigell/resume-screener/internal/screening"
)

const (
	PromptReportByRecommendation = "Report by recommendation"
	PromptReportFailed           = "Report failed screenings"
	PromptResultsToFile          = "Dump results to file"
	PromptAppendToScreenedFile   = "Append results to screened file"
	PromptExit                   = "Exit"
)

var errExit = errors.New("exit requested")

var batchPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReportByRecommendation, PromptReportFailed, PromptResultsToFile, PromptAppendToScreenedFile, PromptExit},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Screen every resume in the CSV file against the job requirements",
	Run: func(cmd *cobra.Command, _ []string) {
		batch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("limit", "l", 0, "screen only the first N resumes of the file")
	batchCmd.Flags().StringSliceP("categories", "c", nil, "screen only resumes of these categories")
	batchCmd.Flags().Float64("minimum-fit-score", 0, "drop resumes scoring below this value")
	batchCmd.Flags().StringP("screened-file", "e", "", "file with already screened resumes. Default is unset.")
	batchCmd.Flags().Bool("dry-run", false, "apply only the local filters and print what would be screened")
	batchCmd.Flags().BoolP("auto-approve", "y", false, "append results to the screened file without asking")

	viper.BindPFlag("batch.limit", batchCmd.Flags().Lookup("limit"))
	viper.BindPFlag("batch.categories", batchCmd.Flags().Lookup("categories"))
	viper.BindPFlag("batch.minimum-fit-score", batchCmd.Flags().Lookup("minimum-fit-score"))
	viper.BindPFlag("batch.screened-file", batchCmd.Flags().Lookup("screened-file"))
}

func batch(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := bootstrap()

	logger.Info("starting the batch screening", zap.String("version", version))

	all, err := resumes.LoadAll(config.Data.Resumes, config.Batch.Limit)
	if err != nil {
		logger.Fatal("loading resumes", zap.String("path", config.Data.Resumes), zap.Error(err))
	}

	logger.Info("resumes loaded", zap.Int("count", all.Len()), zap.Any("categories", all.Categories()))

	if all.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes found"))
		return
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	steps, err := prepareFilters(ctx, config, logger, dryRun)
	if err != nil {
		logger.Fatal("preparing filters", zap.Error(err))
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	left, results, err := filtering.Run(ctx, logger, steps, all)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if dryRun {
		logger.Info("resumes to screen", zap.Strings("ids", left.IDs()), zap.Int("count", left.Len()))
		return
	}

	usage := results.Usage()
	logger.Info("batch screening completed",
		zap.Int("screened", results.Len()),
		zap.Int("failed", len(results.Failed())),
		zap.Int("passed", left.Len()),
		zap.Int("total_tokens", usage.TotalTokens),
	)

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no resumes left after filters"))
		return
	}

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); autoApprove {
		if err := appendToScreenedFile(config, logger, results); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := batchPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, config, logger, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, config *Config, logger *zap.Logger, results *screening.Results) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByRecommendation:
		pretty, _ := json.MarshalIndent(results.ReportByRecommendation(), "", "  ")
		logger.Info(string(pretty), zap.Int("results count", results.Len()))
		return nil
	case PromptReportFailed:
		for _, failed := range results.Failed() {
			logger.Info("failed screening", zap.String("resume_id", failed.ResumeID), zap.String("error", failed.Error))
		}
		return nil
	case PromptResultsToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToScreenedFile:
		return appendToScreenedFile(config, logger, results)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func appendToScreenedFile(config *Config, logger *zap.Logger, results *screening.Results) error {
	path := strings.TrimSpace(config.Batch.ScreenedFile)
	if path == "" {
		return errors.New("screened file is not configured (set batch.screened-file or --screened-file)")
	}

	screened, err := resumes.LoadScreened(path)
	if err != nil {
		return fmt.Errorf("load screened resumes: %w", err)
	}

	toAppend := results.ToScreened(time.Now().UTC())
	screened.Append(toAppend)

	if err := screened.ToFile(path); err != nil {
		return fmt.Errorf("write screened resumes: %w", err)
	}

	logger.Info("appended to screened file",
		zap.String("filename", path),
		zap.Int("appended", len(toAppend.Items)),
	)
	return nil
}

func prepareFilters(ctx context.Context, config *Config, logger *zap.Logger, dryRun bool) ([]filtering.Filter, error) {
	steps := []filtering.Filter{
		filtering.NewCategories(config.Batch.Categories),
		filtering.NewScreenedFile(config.Batch.ScreenedFile),
	}

	aiConfig := &filtering.AIFitFilterConfig{
		Enabled:         !dryRun,
		Model:           config.AI.Model,
		MinimumFitScore: config.Batch.MinimumFitScore,
		MaxRetries:      config.AI.MaxRetries,
	}

	if dryRun {
		aiFilter := filtering.NewAIFit(aiConfig, nil)
		aiFilter.Disable("dry run")
		return append(steps, aiFilter), nil
	}

	jobReq, err := resumes.LoadJobRequirements(config.Data.JobRequirements)
	if err != nil {
		return nil, err
	}

	screener, err := newScreener(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}
	aiConfig.Model = screener.Model()

	return append(steps, filtering.NewAIFit(aiConfig, &filtering.AIFitFilterDeps{
		Logger:   logger,
		Screener: screener,
		JobReq:   jobReq,
	})), nil
}

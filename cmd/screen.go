package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var screenCmd = &cobra.Command{
	Use:   "screen <resume-id>",
	Short: "Extract skills from a resume and match them to the job requirements",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		screen(args[0])
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)
}

func screen(id string) {
	ctx := context.Background()
	logger, config := bootstrap()

	screener, err := newScreener(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("preparing screener", zap.Error(err))
	}

	result, err := screener.ScreenByID(ctx, config.Data.Resumes, id, config.Data.JobRequirements)
	if err != nil {
		logger.Fatal("screening resume", zap.Error(err))
	}

	if err := printJSON(result); err != nil {
		logger.Fatal("printing result", zap.Error(err))
	}

	if result.Failed() {
		logger.Fatal("screening failed", zap.String("resume_id", id), zap.String("error", result.Error))
	}
}

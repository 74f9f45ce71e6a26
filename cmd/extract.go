package cmd

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/prompt"
	"github.com/spigell/resume-screener/internal/resumes"
	"github.com/spigell/resume-screener/internal/screening"
)

var extractCmd = &cobra.Command{
	Use:   "extract <resume-id>",
	Short: "Extract structured data from a single resume",
	Long: "Extract technical skills from a resume. With --instruction and --schema any\n" +
		"structured extraction can be run against the resume text instead.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extract(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("instruction", "i", "", "custom extraction instruction")
	extractCmd.Flags().StringP("schema", "s", "", "JSON example of the expected output, required with --instruction")
	extractCmd.Flags().Float64P("temperature", "t", screening.DefaultStructuredTemperature, "sampling temperature for custom extraction")
}

func extract(cmd *cobra.Command, id string) {
	ctx := context.Background()
	logger, config := bootstrap()

	resume, err := resumes.LoadByID(config.Data.Resumes, id)
	if err != nil {
		logger.Fatal("loading resume", zap.String("path", config.Data.Resumes), zap.Error(err))
	}

	screener, err := newScreener(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("preparing screener", zap.Error(err))
	}

	instruction, _ := cmd.Flags().GetString("instruction")
	if strings.TrimSpace(instruction) == "" {
		result := screener.ExtractSkills(ctx, resume.Text)
		if result.Failed() {
			logger.Fatal("skill extraction failed", zap.String("error", result.Error))
		}

		skills, err := screening.DecodeSkills(result.Parsed)
		if err != nil {
			logger.Fatal("unexpected extraction output",
				zap.Error(err),
				zap.String("content", result.Content),
			)
		}

		logger.Info("skills extracted",
			zap.String("resume_id", resume.ID),
			zap.Int("skills", skills.Count()),
			zap.Int("total_tokens", result.Usage.TotalTokens),
		)
		if err := printJSON(skills); err != nil {
			logger.Fatal("printing skills", zap.Error(err))
		}
		return
	}

	rawSchema, _ := cmd.Flags().GetString("schema")
	var schema any
	if err := json.Unmarshal([]byte(rawSchema), &schema); err != nil {
		logger.Fatal("parsing --schema", zap.Error(err))
	}

	temperature, _ := cmd.Flags().GetFloat64("temperature")

	result := screener.Structured(ctx, screening.StructuredRequest{
		Instruction: instruction,
		Context:     prompt.ContextMap{}.With("resume", resume.Text),
		Schema:      schema,
		Temperature: temperature,
	})
	if result.Failed() {
		logger.Fatal("structured extraction failed", zap.String("error", result.Error))
	}

	logger.Info("structured extraction completed",
		zap.String("resume_id", resume.ID),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	if err := printJSON(result.Parsed); err != nil {
		logger.Fatal("printing result", zap.Error(err))
	}
}

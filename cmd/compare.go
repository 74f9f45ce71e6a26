package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/utils"
)

var defaultCompareModels = []string{
	"anthropic/claude-3.5-sonnet",
	"openai/gpt-4o-mini",
	"google/gemini-2.0-flash-001",
	"meta-llama/llama-3.1-70b-instruct",
}

var compareCmd = &cobra.Command{
	Use:   "compare [prompt]",
	Short: "Send the same prompt to several models and compare the answers",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		compare(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringSlice("models", defaultCompareModels, "models to compare")
	compareCmd.Flags().IntP("attempts", "a", ai.DefaultChatAttempts, "how many times a failed call is attempted")
	compareCmd.Flags().Int("concurrency", 1, "how many models are queried at once")
	compareCmd.Flags().BoolP("inspect", "i", false, "pick models interactively to print their full answers")
	compareCmd.Flags().Int("preview", 120, "answer preview length in the report, 0 prints full answers")
}

func compare(cmd *cobra.Command, prompt string) {
	ctx := context.Background()
	logger, config := bootstrap()

	completer, _, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai provider", zap.Error(err))
	}

	models, _ := cmd.Flags().GetStringSlice("models")
	attempts, _ := cmd.Flags().GetInt("attempts")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	preview, _ := cmd.Flags().GetInt("preview")

	comparisons := ai.Compare(ctx, completer, models, prompt, attempts, concurrency, ai.WithLogger(logger))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tSTATUS\tTOKENS\tDURATION\tANSWER")
	for _, c := range comparisons {
		status, answer := "ok", c.Result.Content
		if c.Result.Failed() {
			status, answer = "failed", c.Result.Error
		}
		if preview > 0 {
			answer = utils.TruncateForLog(answer, preview)
		}
		answer = strings.ReplaceAll(answer, "\n", " ")

		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", c.Model, status, c.Result.Usage.TotalTokens, c.Duration.Round(time.Millisecond), answer)
	}
	w.Flush()

	if best := ai.Fastest(comparisons); best != nil {
		logger.Info("comparison completed", zap.String("fastest", best.Model), zap.Duration("duration", best.Duration))
	} else {
		logger.Warn("every model failed")
	}

	if inspect, _ := cmd.Flags().GetBool("inspect"); inspect {
		if err := inspectAnswers(comparisons); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func inspectAnswers(comparisons []ai.Comparison) error {
	items := make([]string, 0, len(comparisons)+1)
	for _, c := range comparisons {
		items = append(items, c.Model)
	}

	modelPrompt := promptui.Select{
		Label: "Choose a model and press ENTER",
		Items: append(items, PromptExit),
	}

	for {
		idx, selected, err := modelPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptExit {
			return nil
		}

		result := comparisons[idx].Result
		if result.Failed() {
			fmt.Printf("%s failed: %s\n\n", selected, result.Error)
			continue
		}
		fmt.Printf("%s\n\n", result.Content)
	}
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
)

var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Send a single prompt to the model and print the answer",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		chat(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().IntP("attempts", "a", ai.DefaultChatAttempts, "how many times a failed call is attempted")
}

func chat(cmd *cobra.Command, prompt string) {
	ctx := context.Background()
	logger, config := bootstrap()

	completer, model, err := newCompleter(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai provider", zap.Error(err))
	}

	attempts, _ := cmd.Flags().GetInt("attempts")

	result := ai.SafeChat(ctx, completer, model, prompt, attempts, ai.WithLogger(logger))
	if result.Failed() {
		logger.Fatal("chat failed", zap.String("model", model), zap.String("error", result.Error))
	}

	logger.Debug("chat completed",
		zap.String("model", result.Model),
		zap.Int("prompt_tokens", result.Usage.PromptTokens),
		zap.Int("completion_tokens", result.Usage.CompletionTokens),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	fmt.Println(result.Content)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available on OpenRouter",
	Run: func(cmd *cobra.Command, _ []string) {
		models(cmd)
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().IntP("limit", "l", 20, "maximum number of models to print, 0 prints all")
}

func models(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := bootstrap()

	client, err := newOpenRouter(config.AI, logger)
	if err != nil {
		logger.Fatal("building openrouter client", zap.Error(err))
	}

	limit, _ := cmd.Flags().GetInt("limit")

	list, err := client.ListModels(ctx, limit)
	if err != nil {
		logger.Fatal("listing models", zap.Error(err))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCONTEXT\tPROMPT\tCOMPLETION")
	for _, m := range list {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", m.ID, m.ContextLength, m.Pricing.Prompt, m.Pricing.Completion)
	}
	w.Flush()

	logger.Info("models listed", zap.Int("count", len(list)))
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Show the usage and remaining balance of the OpenRouter key",
	Run: func(_ *cobra.Command, _ []string) {
		credits()
	},
}

func init() {
	rootCmd.AddCommand(creditsCmd)
}

func credits() {
	ctx := context.Background()
	logger, config := bootstrap()

	client, err := newOpenRouter(config.AI, logger)
	if err != nil {
		logger.Fatal("building openrouter client", zap.Error(err))
	}

	balance, err := client.Credits(ctx)
	if err != nil {
		logger.Fatal("getting credits", zap.Error(err))
	}

	if balance.Label != "" {
		fmt.Printf("Key:       %s\n", balance.Label)
	}
	fmt.Printf("Usage:     $%.4f\n", balance.Usage)
	if remaining, ok := balance.Remaining(); ok {
		fmt.Printf("Limit:     $%.4f\n", *balance.Limit)
		fmt.Printf("Remaining: $%.4f\n", remaining)
	} else {
		fmt.Println("Limit:     unlimited")
	}
	if balance.IsFreeTier {
		fmt.Println("Free tier: yes")
	}
}

package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/openrouter"
)

const (
	app = "resume-screener"
)

type Config struct {
	Data  *DataConfig  `mapstructure:"data"`
	AI    *AIConfig    `mapstructure:"ai"`
	Batch *BatchConfig `mapstructure:"batch"`
}

type DataConfig struct {
	Resumes         string `mapstructure:"resumes"`
	JobRequirements string `mapstructure:"job-requirements"`
}

type AIConfig struct {
	// Provider is openrouter or gemini.
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	APIURL       string `mapstructure:"api-url"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type BatchConfig struct {
	Categories      []string `mapstructure:"categories"`
	ScreenedFile    string   `mapstructure:"screened-file"`
	MinimumFitScore float64  `mapstructure:"minimum-fit-score"`
	Limit           int      `mapstructure:"limit"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-screener extracts skills from resumes and matches them to a job with LLMs via OpenRouter",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	viper.SetDefault("ai.provider", openrouter.ProviderName)
	viper.SetDefault("ai.api-url", openrouter.DefaultAPIURL)
	viper.SetDefault("ai.max-retries", ai.DefaultChatAttempts)
	viper.SetDefault("ai.max-log-length", 200)
	viper.SetDefault("data.resumes", "data/Resume.csv")
	viper.SetDefault("data.job-requirements", "data/job_requisition.md")
	viper.SetDefault("batch.minimum-fit-score", 60)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("model", "m", "", "model to use (default from ai.model)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("ai.model", rootCmd.PersistentFlags().Lookup("model"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless set explicitly. A broken one is fatal.
	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (cfgFile != "" || !errors.As(err, &notFound)) {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Data == nil {
		config.Data = &DataConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.Batch == nil {
		config.Batch = &BatchConfig{}
	}

	return config, nil
}

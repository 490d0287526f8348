package main

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kowshik24/papertocode/logging"
)

var rootCmd = &cobra.Command{
	Use:   "papertocode",
	Short: "Turn a research paper into a runnable notebook",
	Long:  "papertocode reads extracted paper text and orchestrates an LLM provider through analyze, design and generate stages to produce a runnable Jupyter notebook.",
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("provider", "p", "openai", "LLM provider (openai, anthropic, gemini, groq, huggingface, ollama)")
	rootCmd.PersistentFlags().StringP("model", "m", "gpt-4o", "Model identifier")
	rootCmd.PersistentFlags().String("api-key", "", "Provider API key (defaults to the provider's env var)")
	rootCmd.PersistentFlags().String("base-url", "", "Provider endpoint override")
	rootCmd.PersistentFlags().Int("max-tokens", 8192, "Max output tokens")
	rootCmd.PersistentFlags().Float64("temperature", 0.7, "Sampling temperature")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")

	_ = viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("max_tokens", rootCmd.PersistentFlags().Lookup("max-tokens"))
	_ = viper.BindPFlag("temperature", rootCmd.PersistentFlags().Lookup("temperature"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	// Local development credentials; missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix("PAPERTOCODE")
	viper.AutomaticEnv()

	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logging.Init(level, viper.GetString("log_format"))
}

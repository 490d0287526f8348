package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kowshik24/papertocode/pipeline"
	"github.com/kowshik24/papertocode/provider"
)

var generateCmd = &cobra.Command{
	Use:   "generate <paper.txt>",
	Short: "Generate a notebook from extracted paper text",
	Long:  "Read plain paper text from a file, run the analyze/design/generate pipeline against the configured provider, and write the resulting .ipynb.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "Output path (default: the suggested filename)")
	generateCmd.Flags().String("title", "", "Paper title (default: derived from the file name)")
	generateCmd.Flags().String("domain", "", "Paper domain override (default: classified from the text)")

	rootCmd.AddCommand(generateCmd)
}

// credentialEnvVars maps each provider to the env var its key is read
// from when --api-key is not given. Ollama runs locally and needs none.
var credentialEnvVars = map[string]string{
	provider.ProviderOpenAI:      "OPENAI_API_KEY",
	provider.ProviderAnthropic:   "ANTHROPIC_API_KEY",
	provider.ProviderGemini:      "GEMINI_API_KEY",
	provider.ProviderGroq:        "GROQ_API_KEY",
	provider.ProviderHuggingFace: "HF_API_KEY",
}

func runGenerate(cmd *cobra.Command, args []string) error {
	paperFile := args[0]

	text, err := os.ReadFile(paperFile)
	if err != nil {
		return fmt.Errorf("reading paper text: %w", err)
	}
	if strings.TrimSpace(string(text)) == "" {
		return fmt.Errorf("paper file %s is empty", paperFile)
	}

	cfg := provider.Config{
		Provider:    viper.GetString("provider"),
		Model:       viper.GetString("model"),
		APIKey:      resolveAPIKey(viper.GetString("provider")),
		BaseURL:     viper.GetString("base_url"),
		MaxTokens:   viper.GetInt("max_tokens"),
		Temperature: viper.GetFloat64("temperature"),
	}

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(paperFile), filepath.Ext(paperFile))
	}

	paper := pipeline.Paper{Title: title, Text: string(text)}
	if domain, _ := cmd.Flags().GetString("domain"); domain != "" {
		paper.Domain = pipeline.Domain(domain)
	}

	gen, err := pipeline.NewGenerator(cfg, pipeline.WithProgressListener(printProgress))
	if err != nil {
		return err
	}

	content, err := gen.Generate(cmd.Context(), paper)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = content.SuggestedFilename
	}
	if err := content.WriteFile(output); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Wrote %s (%d cells)\n", output, len(content.Cells))
	fmt.Fprintf(os.Stderr, "Guide: %s\n", content.Guide)
	return nil
}

// resolveAPIKey prefers the --api-key flag, then the provider's env var.
func resolveAPIKey(providerName string) string {
	if key := viper.GetString("api_key"); key != "" {
		return key
	}
	if envVar, ok := credentialEnvVars[providerName]; ok {
		return os.Getenv(envVar)
	}
	return ""
}

func printProgress(p pipeline.Progress) {
	fmt.Fprintf(os.Stderr, "[%d/%d] %s: %s\n", p.Step+1, p.TotalSteps, p.Name, p.Message)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shwan6160/EPUB-AI-Translator/internal/provider"
)

var modelsKey string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available Gemini models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openKeystore()
		if err != nil {
			return err
		}
		apiKey, err := store.Resolve("GEMINI_KEY", modelsKey)
		if err != nil {
			return err
		}
		models, err := provider.ListGeminiModels(cmd.Context(), apiKey)
		if err != nil {
			return err
		}
		for _, m := range models {
			fmt.Println(m)
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().StringVar(&modelsKey, "key", "", "Gemini API key (overrides env and key store)")
}

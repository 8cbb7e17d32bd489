package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shwan6160/EPUB-AI-Translator/internal/config"
	"github.com/shwan6160/EPUB-AI-Translator/internal/dictionary"
	"github.com/shwan6160/EPUB-AI-Translator/internal/epub"
	"github.com/shwan6160/EPUB-AI-Translator/internal/keystore"
	"github.com/shwan6160/EPUB-AI-Translator/internal/pipeline"
	"github.com/shwan6160/EPUB-AI-Translator/internal/prompts"
	"github.com/shwan6160/EPUB-AI-Translator/internal/provider"
	"github.com/shwan6160/EPUB-AI-Translator/internal/workspace"
)

var translateFlags struct {
	provider string
	model    string
	key      string
	lang     string
	workers  int
	maxChars int
	yes      bool
	noDict   bool
}

var translateCmd = &cobra.Command{
	Use:   "translate <book.epub>",
	Short: "Translate an EPUB book",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranslate,
}

func init() {
	f := translateCmd.Flags()
	f.StringVar(&translateFlags.provider, "provider", "", "model provider (Google, OpenRouter)")
	f.StringVar(&translateFlags.model, "model", "", "model name")
	f.StringVar(&translateFlags.key, "key", "", "provider API key (overrides env and key store)")
	f.StringVar(&translateFlags.lang, "lang", "", "target language code")
	f.IntVar(&translateFlags.workers, "workers", 0, "parallel file workers")
	f.IntVar(&translateFlags.maxChars, "max-chars", 0, "chunk character budget")
	f.BoolVarP(&translateFlags.yes, "yes", "y", false, "answer yes to all prompts")
	f.BoolVar(&translateFlags.noDict, "no-dictionary", false, "skip character dictionary generation")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	epubPath := args[0]
	if _, err := os.Stat(epubPath); err != nil {
		return fmt.Errorf("epub file not found: %s", epubPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if translateFlags.lang != "" {
		cfg.TargetLang = translateFlags.lang
	}
	if translateFlags.workers > 0 {
		cfg.MaxWorkers = translateFlags.workers
	}
	if translateFlags.maxChars > 0 {
		cfg.MaxChars = translateFlags.maxChars
	}
	if translateFlags.provider != "" {
		cfg.Provider = translateFlags.provider
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	root, err := workspace.Dir()
	if err != nil {
		return err
	}
	keys := keystore.New(root)

	providerName := cfg.Provider
	if translateFlags.provider == "" && !translateFlags.yes {
		providerName = selectFrom("Select a model provider:",
			[]string{provider.NameGoogle, provider.NameOpenRouter})
	}
	apiKey, err := resolveProviderKey(keys, providerName, translateFlags.key)
	if err != nil {
		return err
	}

	model := translateFlags.model
	if model == "" {
		model, err = chooseModel(cmd.Context(), providerName, apiKey, cfg.Model)
		if err != nil {
			return err
		}
	}

	fmt.Printf("EPUB:     %s\nProvider: %s\nModel:    %s\nTarget:   %s\n",
		epubPath, providerName, model, cfg.TargetLang)
	if !confirm(translateFlags.yes, "Proceed with these settings?") {
		return fmt.Errorf("aborted")
	}

	stem := strings.TrimSuffix(filepath.Base(epubPath), filepath.Ext(epubPath))
	extractDir, err := workspace.ExtractionDir(root, stem)
	if err != nil {
		return err
	}
	book, err := epub.Open(epubPath, extractDir)
	if err != nil {
		return err
	}
	fmt.Printf("Extracted %d content files to %s\n", len(book.ContentFiles), extractDir)

	opts := pipeline.DefaultOptions()
	opts.MaxChars = cfg.MaxChars
	opts.TargetLang = cfg.TargetLang

	charDict, err := prepareDictionary(cmd.Context(), book, epubPath, providerName, model, apiKey, opts)
	if err != nil {
		return err
	}

	p, err := provider.NewForTranslation(providerName, apiKey, model, prompts.BuildTranslationSystem(charDict))
	if err != nil {
		return err
	}

	fmt.Printf("Translating... (chunk budget %d chars, %d workers)\n", cfg.MaxChars, cfg.MaxWorkers)
	fn := pipeline.NewTranslateFunc(provider.WithRetry(p))
	result, err := pipeline.RunBook(cmd.Context(), book, fn, cfg.MaxWorkers, opts, log)
	if err != nil {
		return err
	}
	for name, ferr := range result.Failed {
		fmt.Fprintf(os.Stderr, "failed: %s: %v\n", name, ferr)
	}
	if len(result.Succeeded) == 0 {
		return fmt.Errorf("no files translated successfully")
	}

	outPath := strings.TrimSuffix(epubPath, filepath.Ext(epubPath)) + "_" + cfg.TargetLang + ".epub"
	if err := epub.Repackage(book, outPath); err != nil {
		return err
	}
	fmt.Printf("Done: %d/%d files translated. Output: %s\n",
		len(result.Succeeded), len(book.ContentFiles), outPath)
	return nil
}

// prepareDictionary loads an existing character dictionary beside the
// EPUB, or generates one with the selected provider.
func prepareDictionary(ctx context.Context, book *epub.Book, epubPath, providerName, model, apiKey string, opts pipeline.Options) (string, error) {
	if translateFlags.noDict {
		return "", nil
	}

	dictPath := dictionary.PathFor(epubPath)
	if _, err := os.Stat(dictPath); err == nil {
		fmt.Printf("Found existing character dictionary: %s\n", dictPath)
		if confirm(translateFlags.yes, "Load it?") {
			dict, err := dictionary.Load(dictPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to load dictionary: %v\n", err)
			} else {
				return dict.Render(), nil
			}
		}
	}

	if !confirm(translateFlags.yes, "Generate a new character dictionary?") {
		return "", nil
	}

	dp, err := provider.NewForDictionary(providerName, apiKey, model, prompts.DictionarySystem)
	if err != nil {
		return "", err
	}
	fullText, err := epub.FullText(book, opts.Simplify)
	if err != nil {
		return "", err
	}
	fmt.Println("Generating character dictionary...")
	dict, err := dictionary.Generate(ctx, provider.WithRetry(dp), fullText)
	if err != nil {
		return "", fmt.Errorf("dictionary generation failed: %w", err)
	}
	if confirm(translateFlags.yes, "Save the dictionary for reuse?") {
		if err := dict.Save(dictPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save dictionary: %v\n", err)
		} else {
			fmt.Printf("Saved: %s\n", dictPath)
		}
	}
	return dict.Render(), nil
}

// chooseModel lists models for Google interactively, or falls back to
// the configured default.
func chooseModel(ctx context.Context, providerName, apiKey, fallback string) (string, error) {
	switch providerName {
	case provider.NameGoogle:
		if translateFlags.yes {
			return fallback, nil
		}
		models, err := provider.ListGeminiModels(ctx, apiKey)
		if err != nil {
			return "", fmt.Errorf("list models: %w", err)
		}
		var usable []string
		for _, m := range models {
			if strings.Contains(m, "gemini") || strings.Contains(m, "gemma") {
				usable = append(usable, m)
			}
		}
		if len(usable) == 0 {
			return fallback, nil
		}
		return selectFrom("Available models:", usable), nil
	case provider.NameOpenRouter:
		if translateFlags.yes {
			return fallback, nil
		}
		return selectFrom("Available models:", []string{
			"qwen/qwen3-max-thinking",
			"moonshotai/kimi-k2.5",
			"z-ai/GLM-5",
		}), nil
	default:
		return fallback, nil
	}
}

func resolveProviderKey(keys *keystore.Store, providerName, flagKey string) (string, error) {
	switch providerName {
	case provider.NameGoogle:
		return keys.Resolve("GEMINI_KEY", flagKey)
	case provider.NameOpenRouter:
		return keys.Resolve("OPENROUTER_KEY", flagKey)
	default:
		return "", fmt.Errorf("unknown provider %q", providerName)
	}
}

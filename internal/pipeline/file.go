// Package pipeline orchestrates the translation of documents and whole
// books: simplify, extract, chunk, translate sequentially per file, and
// reinject — fanning out across files under a bounded worker pool.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shwan6160/EPUB-AI-Translator/internal/chunker"
	"github.com/shwan6160/EPUB-AI-Translator/internal/markup"
	"github.com/shwan6160/EPUB-AI-Translator/internal/segment"
	"golang.org/x/net/html"
)

// TranslateFunc is the translation capability supplied by the caller:
// source text plus prior-chunk context in, translated text out. It is
// the single blocking point of the pipeline and must be safe for
// concurrent calls when files are processed in parallel.
type TranslateFunc func(ctx context.Context, text, prevContext string) (string, error)

// Options carries the configuration consumed by the core pipeline.
type Options struct {
	MaxChars   int
	TargetLang string

	Simplify markup.SimplifyConfig
	Extract  segment.ExtractConfig
	Post     markup.PostProcessConfig
}

// DefaultOptions returns the stock pipeline configuration.
func DefaultOptions() Options {
	return Options{
		MaxChars:   chunker.DefaultMaxChars,
		TargetLang: "ko",
		Simplify:   markup.DefaultSimplifyConfig(),
		Extract:    segment.DefaultExtractConfig(),
		Post:       markup.DefaultPostProcessConfig(),
	}
}

// TranslateDocument runs the full pipeline over one document tree,
// mutating it in place. Chunks are translated in strict sequential
// order: each call receives the previous chunk's *source* text as
// context, so context quality does not compound translation drift.
// A translation failure aborts the remaining chunks of this document;
// translations already written are kept (best effort, partial result).
func TranslateDocument(ctx context.Context, doc *html.Node, fn TranslateFunc, opts Options, log *slog.Logger) error {
	if err := markup.Simplify(doc, opts.Simplify); err != nil {
		return err
	}

	segs, err := segment.Extract(doc, opts.Extract)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		markup.PostProcess(doc, opts.TargetLang, opts.Post)
		return nil
	}

	chunks := chunker.Split(segs, opts.MaxChars)
	codec := chunker.Codec{Log: log}
	log.Info("translating document", "segments", len(segs), "chunks", len(chunks))

	prevSource := ""
	for i, ch := range chunks {
		encoded := codec.Build(ch)
		translated, err := fn(ctx, encoded, prevSource)
		if err != nil {
			return fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
		}
		for idx, text := range codec.Parse(translated, ch) {
			seg := segs[idx]
			seg.TranslatedText = text
			seg.Translated = true
		}
		prevSource = encoded
	}

	segment.Reinject(segs)
	markup.PostProcess(doc, opts.TargetLang, opts.Post)
	return nil
}

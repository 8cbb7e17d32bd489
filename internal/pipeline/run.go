package pipeline

import (
	"context"
	"log/slog"

	"github.com/shwan6160/EPUB-AI-Translator/internal/epub"
	"github.com/shwan6160/EPUB-AI-Translator/internal/prompts"
	"github.com/shwan6160/EPUB-AI-Translator/internal/provider"
)

// NewTranslateFunc adapts a provider into the pipeline's translation
// capability: the chunk and its prior-chunk context are framed by the
// translation prompt, and stray code fences are stripped from the
// model's reply.
func NewTranslateFunc(p provider.Provider) TranslateFunc {
	return func(ctx context.Context, text, prevContext string) (string, error) {
		out, err := p.GenerateContent(ctx, prompts.BuildTranslationUser(prevContext, text))
		if err != nil {
			return "", err
		}
		return provider.StripCodeBlock(out), nil
	}
}

// RunBook translates every content file of an extracted book and
// writes the mutated documents back. Files that fail keep their
// original bytes on disk, so a partial run still repackages into a
// readable book.
func RunBook(ctx context.Context, book *epub.Book, fn TranslateFunc, maxWorkers int, opts Options, log *slog.Logger) (BookResult, error) {
	files := make([]File, 0, len(book.ContentFiles))
	for _, rel := range book.ContentFiles {
		doc, err := book.LoadDocument(rel)
		if err != nil {
			return BookResult{}, err
		}
		files = append(files, File{Name: rel, Doc: doc})
	}

	result := TranslateBook(ctx, files, fn, maxWorkers, opts, log)

	saved := result.Succeeded[:0]
	for _, f := range files {
		if _, failed := result.Failed[f.Name]; failed {
			continue
		}
		if err := book.SaveDocument(f.Name, f.Doc); err != nil {
			result.Failed[f.Name] = err
			continue
		}
		saved = append(saved, f.Name)
	}
	result.Succeeded = saved
	return result, nil
}

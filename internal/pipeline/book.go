package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/net/html"
)

// File pairs a content document with its identity within the book.
type File struct {
	Name string
	Doc  *html.Node
}

// BookResult reports the per-file outcome of a book run. The run is
// complete when every file has either succeeded or recorded a failure.
type BookResult struct {
	Succeeded []string
	Failed    map[string]error
}

// OK reports whether every file translated successfully.
func (r BookResult) OK() bool {
	return len(r.Failed) == 0
}

// TranslateBook runs TranslateDocument over every content file of a
// book. With maxWorkers <= 1 files are processed strictly in reading
// order; otherwise a bounded worker pool of that size is used. Each
// tree is owned exclusively by its own task, so file-level parallelism
// needs no shared locking. A failing file never cancels its siblings.
func TranslateBook(ctx context.Context, files []File, fn TranslateFunc, maxWorkers int, opts Options, log *slog.Logger) BookResult {
	result := BookResult{Failed: make(map[string]error)}

	if maxWorkers <= 1 {
		for _, f := range files {
			recordResult(&result, f.Name, translateFile(ctx, f, fn, opts, log), log)
		}
		return result
	}

	type outcome struct {
		name string
		err  error
	}
	outcomes := make(chan outcome, len(files))
	sem := make(chan struct{}, maxWorkers)

	for _, f := range files {
		sem <- struct{}{}
		go func(f File) {
			defer func() { <-sem }()
			outcomes <- outcome{name: f.Name, err: translateFile(ctx, f, fn, opts, log)}
		}(f)
	}

	for range files {
		o := <-outcomes
		recordResult(&result, o.name, o.err, log)
	}
	return result
}

func recordResult(r *BookResult, name string, err error, log *slog.Logger) {
	if err != nil {
		log.Error("file translation failed", "file", name, "error", err)
		r.Failed[name] = err
		return
	}
	r.Succeeded = append(r.Succeeded, name)
}

// translateFile isolates one file's run, converting a panic into a
// recorded per-file failure so sibling files keep going.
func translateFile(ctx context.Context, f File, fn TranslateFunc, opts Options, log *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic translating %s: %v", f.Name, r)
		}
	}()
	return TranslateDocument(ctx, f.Doc, fn, opts, log.With("file", f.Name))
}

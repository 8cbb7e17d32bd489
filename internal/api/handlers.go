package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shwan6160/EPUB-AI-Translator/internal/dictionary"
	"github.com/shwan6160/EPUB-AI-Translator/internal/epub"
	"github.com/shwan6160/EPUB-AI-Translator/internal/pipeline"
	"github.com/shwan6160/EPUB-AI-Translator/internal/prompts"
	"github.com/shwan6160/EPUB-AI-Translator/internal/provider"
	"github.com/shwan6160/EPUB-AI-Translator/internal/workspace"
)

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".epub") {
		jsonError(w, "only .epub uploads are supported", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	targetLang := r.FormValue("target_lang")
	if targetLang == "" {
		targetLang = s.cfg.TargetLang
	}
	providerName := r.FormValue("provider")
	if providerName == "" {
		providerName = s.cfg.Provider
	}
	model := r.FormValue("model")
	if model == "" {
		model = s.cfg.Model
	}
	withDict := r.FormValue("generate_dictionary") == "true"

	now := time.Now()
	job := &pipeline.Job{
		ID:         uuid.NewString(),
		Filename:   filename,
		TargetLang: targetLang,
		Provider:   providerName,
		Model:      model,
		Status:     pipeline.StatusQueued,
		Phase:      "queued",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	job.SetFileData(data)
	s.jobs.Put(job)

	go s.processJob(job, withDict)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.jobs.Get(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleJobDownload(w http.ResponseWriter, r *http.Request) {
	job := s.jobs.Get(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	out := job.OutputPath()
	if out == "" {
		jsonError(w, "job output not ready", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/epub+zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(out)))
	http.ServeFile(w, r, out)
}

func (s *Server) handleProviderStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"stats": s.stats.Snapshot(),
	})
}

// processJob runs one upload through extraction, optional dictionary
// generation, translation, and repackaging.
func (s *Server) processJob(job *pipeline.Job, withDict bool) {
	ctx := context.Background()
	log := s.log.With("job_id", job.ID, "filename", job.Filename)

	job.SetStatus(pipeline.StatusExtracting, "extracting")

	stem := strings.TrimSuffix(job.Filename, filepath.Ext(job.Filename))
	uploadPath := filepath.Join(s.workspaceRoot, "uploads", job.ID+".epub")
	if err := os.MkdirAll(filepath.Dir(uploadPath), 0755); err != nil {
		s.failJob(job, log, "extracting", err)
		return
	}
	if err := os.WriteFile(uploadPath, job.FileData(), 0644); err != nil {
		s.failJob(job, log, "extracting", err)
		return
	}

	extractDir, err := workspace.ExtractionDir(s.workspaceRoot, stem)
	if err != nil {
		s.failJob(job, log, "extracting", err)
		return
	}
	book, err := epub.Open(uploadPath, extractDir)
	if err != nil {
		s.failJob(job, log, "extracting", err)
		return
	}
	job.SetTotalFiles(len(book.ContentFiles))

	apiKey, err := s.providerKey(job.Provider)
	if err != nil {
		s.failJob(job, log, "extracting", err)
		return
	}

	opts := pipeline.DefaultOptions()
	opts.MaxChars = s.cfg.MaxChars
	opts.TargetLang = job.TargetLang

	charDict := ""
	if withDict {
		dictProvider, err := provider.NewForDictionary(job.Provider, apiKey, job.Model, prompts.DictionarySystem)
		if err != nil {
			s.failJob(job, log, "dictionary", err)
			return
		}
		fullText, err := epub.FullText(book, opts.Simplify)
		if err != nil {
			s.failJob(job, log, "dictionary", err)
			return
		}
		dict, err := dictionary.Generate(ctx, provider.WithRetry(dictProvider), fullText)
		if err != nil {
			log.Warn("dictionary generation failed, translating without one", "error", err)
		} else {
			charDict = dict.Render()
		}
	}

	p, err := provider.NewForTranslation(job.Provider, apiKey, job.Model, prompts.BuildTranslationSystem(charDict))
	if err != nil {
		s.failJob(job, log, "translating", err)
		return
	}
	if g, ok := p.(*provider.Gemini); ok {
		g.Stats = s.stats
	}
	if o, ok := p.(*provider.OpenRouter); ok {
		o.Stats = s.stats
	}

	job.SetStatus(pipeline.StatusTranslating, "translating")
	fn := pipeline.NewTranslateFunc(provider.WithRetry(p))
	result, err := pipeline.RunBook(ctx, book, fn, s.cfg.MaxWorkers, opts, log)
	if err != nil {
		s.failJob(job, log, "translating", err)
		return
	}
	job.AddCompleted(len(result.Succeeded))
	for name, ferr := range result.Failed {
		job.AddError(fmt.Sprintf("%s: %s", name, ferr))
	}

	job.SetStatus(pipeline.StatusRepackaging, "repackaging")
	outPath := filepath.Join(s.workspaceRoot, "outputs",
		fmt.Sprintf("%s_%s.epub", stem, job.TargetLang))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		s.failJob(job, log, "repackaging", err)
		return
	}
	if err := epub.Repackage(book, outPath); err != nil {
		s.failJob(job, log, "repackaging", err)
		return
	}
	job.SetOutputPath(outPath)

	switch {
	case len(result.Failed) == 0:
		job.SetStatus(pipeline.StatusCompleted, "done")
	case len(result.Succeeded) > 0:
		job.SetStatus(pipeline.StatusPartial, "done")
	default:
		job.SetStatus(pipeline.StatusFailed, "translating")
	}
	log.Info("job finished", "status", job.Snapshot().Status,
		"succeeded", len(result.Succeeded), "failed", len(result.Failed))
}

func (s *Server) failJob(job *pipeline.Job, log *slog.Logger, phase string, err error) {
	log.Error("job failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(pipeline.StatusFailed, phase)
}

// providerKey resolves the API key for a provider from config, the
// environment, or the key store.
func (s *Server) providerKey(name string) (string, error) {
	switch name {
	case provider.NameGoogle:
		return s.keys.Resolve("GEMINI_KEY", s.cfg.GeminiKey)
	case provider.NameOpenRouter:
		return s.keys.Resolve("OPENROUTER_KEY", s.cfg.OpenRouterKey)
	default:
		return "", fmt.Errorf("unknown provider %q", name)
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." {
		name = "upload.epub"
	}
	return name
}

package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a book translation job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusTranslating JobStatus = "translating"
	StatusRepackaging JobStatus = "repackaging"
	StatusCompleted   JobStatus = "completed"
	StatusPartial     JobStatus = "partial"
	StatusFailed      JobStatus = "failed"
)

// Job tracks the state of one submitted book translation.
type Job struct {
	mu sync.Mutex

	ID         string    `json:"job_id"`
	Filename   string    `json:"filename"`
	TargetLang string    `json:"target_lang"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData   []byte
	outputPath string
}

// Progress tracks per-file completion.
type Progress struct {
	TotalFiles     int      `json:"total_files"`
	FilesCompleted int      `json:"files_completed"`
	FilesFailed    int      `json:"files_failed"`
	Errors         []string `json:"errors"`
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a per-file error message.
func (j *Job) AddError(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Errors = append(j.Progress.Errors, msg)
	j.Progress.FilesFailed++
	j.UpdatedAt = time.Now()
}

// SetTotalFiles records the number of content files in the book.
func (j *Job) SetTotalFiles(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalFiles = n
	j.UpdatedAt = time.Now()
}

// AddCompleted records successfully translated files.
func (j *Job) AddCompleted(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesCompleted += n
	j.UpdatedAt = time.Now()
}

// SetFileData stores the uploaded EPUB bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the uploaded EPUB bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetOutputPath records where the repackaged EPUB was written.
func (j *Job) SetOutputPath(p string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outputPath = p
}

// OutputPath returns the repackaged EPUB path ("" until repackaging).
func (j *Job) OutputPath() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.outputPath
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	Filename   string    `json:"filename"`
	TargetLang string    `json:"target_lang"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	Progress   Progress  `json:"progress"`
	OutputPath string    `json:"output_path,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:         j.ID,
		Filename:   j.Filename,
		TargetLang: j.TargetLang,
		Provider:   j.Provider,
		Model:      j.Model,
		Status:     j.Status,
		Phase:      j.Phase,
		OutputPath: j.outputPath,
		Progress: Progress{
			TotalFiles:     j.Progress.TotalFiles,
			FilesCompleted: j.Progress.FilesCompleted,
			FilesFailed:    j.Progress.FilesFailed,
			Errors:         errs,
		},
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

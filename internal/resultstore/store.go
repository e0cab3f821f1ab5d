// Package resultstore keeps fetched benchmark results on disk so they can
// be re-rendered, served and compared over time without the job service.
package resultstore

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/contentops/benchconsole/internal/models"
	"github.com/klauspost/compress/zstd"
)

// Ext is the extension of every stored result.
const Ext = ".json.zst"

// ErrNotFound is returned by Get for unknown job ids.
var ErrNotFound = errors.New("result not found")

// Record is what a stored file holds.
type Record struct {
	JobID   string                 `json:"jobId"`
	SavedAt time.Time              `json:"savedAt"`
	Result  models.BenchmarkResult `json:"result"`
}

// Entry describes a stored result without its questions.
type Entry struct {
	JobID        string              `json:"jobId"`
	SavedAt      time.Time           `json:"savedAt"`
	PurchaseInfo models.PurchaseInfo `json:"purchaseInfo"`
	Models       []models.ModelKey   `json:"models"`
	FailedModels int                 `json:"failedModels"`
	Questions    int                 `json:"questions"`
}

// Store is a directory of zstd-compressed JSON results, one per job.
type Store struct {
	dir string
	now func() time.Time

	mu  sync.Mutex
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New creates a store rooted at dir. The directory is created on first Put.
func New(dir string) (*Store, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	return &Store{dir: dir, now: time.Now, enc: enc, dec: dec}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Close releases the decoder.
func (s *Store) Close() {
	s.dec.Close()
}

// Put saves result under jobID, replacing any previous copy. A replaced
// record keeps its original SavedAt, so re-fetching an old job does not
// move it into a recent comparison window.
func (s *Store) Put(jobID string, result *models.BenchmarkResult) error {
	if jobID == "" {
		return errors.New("job id is required")
	}
	if result == nil {
		return errors.New("result is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(jobID)
	rec := Record{JobID: jobID, SavedAt: s.now().UTC(), Result: *result}
	if prev, err := s.read(path); err == nil && prev.JobID == jobID && !prev.SavedAt.IsZero() {
		rec.SavedAt = prev.SavedAt
	}
	if rec.Result.JobID == "" {
		rec.Result.JobID = jobID
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, s.enc.EncodeAll(data, nil), 0o644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// Get loads the stored result for jobID.
func (s *Store) Get(jobID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(s.path(jobID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	if err != nil {
		return nil, err
	}
	if rec.JobID != jobID {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return rec, nil
}

// List returns every stored result, newest first. Unreadable files are
// skipped.
func (s *Store) List() ([]Entry, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		e := Entry{
			JobID:        rec.JobID,
			SavedAt:      rec.SavedAt,
			PurchaseInfo: rec.Result.PurchaseInfo,
		}
		for _, r := range rec.Result.Results {
			e.Models = append(e.Models, r.Model.Key())
			e.Questions += len(r.Questions)
			if r.Failed() {
				e.FailedModels++
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// HistoricalRuns returns every stored result as a run dated by when it
// was first saved.
func (s *Store) HistoricalRuns() ([]models.HistoricalRun, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	runs := make([]models.HistoricalRun, 0, len(records))
	for _, rec := range records {
		runs = append(runs, models.HistoricalRun{
			JobID:     rec.JobID,
			CreatedAt: rec.SavedAt,
			Results:   rec.Result.Results,
		})
	}
	return runs, nil
}

// Clear removes the store directory. It refuses when the directory holds
// anything other than stored results.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading results directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			return fmt.Errorf("results directory contains subdirectories - refusing to delete for safety")
		}
		if !strings.HasSuffix(entry.Name(), Ext) {
			return fmt.Errorf("results directory contains %s - refusing to delete for safety", entry.Name())
		}
	}
	return os.RemoveAll(s.dir)
}

// Records reads every stored record, newest first. Unreadable files are
// skipped.
func (s *Store) Records() ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading results directory: %w", err)
	}

	var records []*Record
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), Ext) {
			continue
		}
		rec, err := s.read(filepath.Join(s.dir, f.Name()))
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	slices.SortFunc(records, func(a, b *Record) int {
		return cmp.Or(b.SavedAt.Compare(a.SavedAt), strings.Compare(a.JobID, b.JobID))
	})
	return records, nil
}

func (s *Store) read(path string) (*Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := s.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", filepath.Base(path), err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return &rec, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (s *Store) path(jobID string) string {
	name := unsafeChars.ReplaceAllString(jobID, "_")
	name = strings.Trim(name, ".")
	if name == "" {
		name = "_"
	}
	return filepath.Join(s.dir, name+Ext)
}

// Package store persists candidate records on the local filesystem: one JSON
// file per candidate, an append-only CSV summary, and plaintext audit logs.
package store

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/talentscout/internal/schemas"
	"github.com/jonathan/talentscout/internal/types"
	"golang.org/x/sync/errgroup"
)

// TimestampLayout is the fixed-width UTC layout used for record timestamps,
// so that string order matches chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

const (
	jsonDirName     = "json"
	exportDirName   = "exports"
	summaryFileName = "candidates_summary.csv"
	activityLogName = "activity_log.txt"
	deletionLogName = "deletion_log.txt"

	loadConcurrency = 8
)

var summaryHeader = []string{
	"timestamp", "candidate_id", "name", "email", "phone",
	"experience", "position", "location", "tech_stack", "status",
}

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrNotFound is returned when no stored record has the requested id.
var ErrNotFound = errors.New("candidate not found")

// MissingFieldError reports a record that lacks a field required for saving.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// FileStore is the filesystem-backed record store. Writes are serialized by
// a mutex so one store can be shared by several sessions in one process.
type FileStore struct {
	dataDir string
	logger  *slog.Logger
	now     func() time.Time
	remove  func(string) error

	mu sync.Mutex
}

// New opens (creating when needed) a record store rooted at dataDir.
func New(dataDir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &FileStore{dataDir: dataDir, logger: logger, now: time.Now, remove: os.Remove}

	if err := os.MkdirAll(s.jsonDir(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := s.initSummary(); err != nil {
		return nil, err
	}
	return s, nil
}

// DataDir returns the root directory of the store.
func (s *FileStore) DataDir() string {
	return s.dataDir
}

func (s *FileStore) jsonDir() string {
	return filepath.Join(s.dataDir, jsonDirName)
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.jsonDir(), id+".json")
}

func (s *FileStore) timestamp() string {
	return s.now().UTC().Format(TimestampLayout)
}

func (s *FileStore) initSummary() error {
	path := filepath.Join(s.dataDir, summaryFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(summaryHeader)
	w.Flush()
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to create summary CSV: %w", err)
	}
	return nil
}

// generateID derives a 12 hex character id from the email and save time.
func generateID(email, timestamp string) string {
	sum := md5.Sum([]byte(email + "_" + timestamp))
	return hex.EncodeToString(sum[:])[:12]
}

// Save persists a copy of record and returns its generated candidate id.
// The caller's record is not modified. When the summary or activity append
// fails the JSON file is removed again, so a retry does not leave a second
// record; a summary row written before an activity failure stays.
func (s *FileStore) Save(record *types.CandidateRecord) (string, error) {
	if err := record.ValidateForSave(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return "", &MissingFieldError{Field: strings.ToLower(verrs[0].Field())}
		}
		return "", fmt.Errorf("failed to validate candidate: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := record.Clone()
	stored.Timestamp = s.timestamp()
	stored.CandidateID = generateID(stored.Email, stored.Timestamp)
	stored.Status = types.StatusPendingReview

	data, err := marshalRecord(stored)
	if err != nil {
		return "", err
	}
	if err := schemas.ValidateCandidate(data); err != nil {
		return "", fmt.Errorf("failed to validate candidate record: %w", err)
	}

	// O_EXCL: an id collision fails instead of overwriting another record.
	f, err := os.OpenFile(s.recordPath(stored.CandidateID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create candidate file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", s.discard(path, fmt.Errorf("failed to write candidate file: %w", err))
	}
	if err := f.Close(); err != nil {
		return "", s.discard(path, fmt.Errorf("failed to close candidate file: %w", err))
	}

	if err := s.appendSummary(stored); err != nil {
		return "", s.discard(path, err)
	}
	if err := s.appendActivity(stored.CandidateID, anonymize(record)); err != nil {
		return "", s.discard(path, err)
	}

	s.logger.Info("candidate saved", slog.String("candidate_id", stored.CandidateID))
	return stored.CandidateID, nil
}

// discard removes a partially saved record file and returns cause.
func (s *FileStore) discard(path string, cause error) error {
	if err := s.remove(path); err != nil {
		s.logger.Error("failed to remove partial candidate file",
			slog.String("path", path), slog.Any("error", err))
	}
	return cause
}

func marshalRecord(r *types.CandidateRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to marshal candidate: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *FileStore) appendSummary(r *types.CandidateRecord) error {
	f, err := os.OpenFile(filepath.Join(s.dataDir, summaryFileName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open summary CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		r.Timestamp, r.CandidateID, r.Name, r.Email, r.Phone,
		r.Experience, r.Position, r.Location, strings.Join(r.TechStack, ", "), r.Status,
	}); err != nil {
		return fmt.Errorf("failed to append summary row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to append summary row: %w", err)
	}
	return nil
}

func (s *FileStore) appendActivity(id string, anonymized *types.CandidateRecord) error {
	data, err := json.MarshalIndent(anonymized, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	var entry strings.Builder
	entry.WriteString("\n" + strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&entry, "Timestamp: %s\n", s.timestamp())
	entry.WriteString("Action: SAVE_CANDIDATE_DATA\n")
	fmt.Fprintf(&entry, "Candidate ID: %s\n", id)
	fmt.Fprintf(&entry, "Data (Anonymized): %s\n", data)

	return appendFile(filepath.Join(s.dataDir, activityLogName), entry.String())
}

func appendFile(path, text string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		return fmt.Errorf("failed to append to %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Get loads the record stored under id.
func (s *FileStore) Get(id string) (*types.CandidateRecord, error) {
	if !validID.MatchString(id) {
		return nil, ErrNotFound
	}
	return s.load(s.recordPath(id))
}

func (s *FileStore) load(path string) (*types.CandidateRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read candidate file: %w", err)
	}

	var r types.CandidateRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return &r, nil
}

// ListAll loads every stored record, newest first.
func (s *FileStore) ListAll(ctx context.Context) ([]*types.CandidateRecord, error) {
	paths, err := filepath.Glob(filepath.Join(s.jsonDir(), "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate files: %w", err)
	}

	records := make([]*types.CandidateRecord, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			r, err := s.load(path)
			if err != nil {
				return err
			}
			records[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	return records, nil
}

// SearchByEmail returns every record whose email matches, ignoring case.
func (s *FileStore) SearchByEmail(ctx context.Context, email string) ([]*types.CandidateRecord, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := []*types.CandidateRecord{}
	for _, r := range all {
		if strings.EqualFold(r.Email, email) {
			matches = append(matches, r)
		}
	}
	return matches, nil
}

// Delete removes the JSON file for id and records the deletion. The CSV
// summary row and the activity log entry are kept. It reports whether a
// record was removed; the deletion log line is written only after removal.
func (s *FileStore) Delete(id string) (bool, error) {
	if !validID.MatchString(id) {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.recordPath(id)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}

	if err := s.remove(path); err != nil {
		return false, fmt.Errorf("failed to delete candidate file: %w", err)
	}
	line := fmt.Sprintf("%s - Deleted candidate: %s\n", s.timestamp(), id)
	if err := appendFile(filepath.Join(s.dataDir, deletionLogName), line); err != nil {
		return true, err
	}

	s.logger.Info("candidate deleted", slog.String("candidate_id", id))
	return true, nil
}

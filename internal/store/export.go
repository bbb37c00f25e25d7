package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/talentscout/internal/types"
)

// Export writes the stored record for id to <data_dir>/exports in the given
// format and returns the written path.
func (s *FileStore) Export(id string, format types.ExportFormat) (string, error) {
	r, err := s.Get(id)
	if err != nil {
		return "", err
	}

	var data []byte
	switch format {
	case types.ExportJSON:
		data, err = marshalRecord(r)
	case types.ExportCSV:
		data, err = flattenCSV(r)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Join(s.dataDir, exportDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_export.%s", id, format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

func flattenCSV(r *types.CandidateRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Field", "Value"})
	for _, kv := range r.Fields() {
		_ = w.Write([]string{kv[0], kv[1]})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode CSV export: %w", err)
	}
	return buf.Bytes(), nil
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/talentscout/internal/store"
	"github.com/jonathan/talentscout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command in-process with fresh flag values.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	configPath, dataDir, verbose = "", "", false
	chatNoLLM = false
	exportFormat, exportUpload = "json", false
	statsJSON = false
	matchRequire, matchText = "", ""
	syncDBURL = ""

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"TALENTSCOUT_DATA_DIR", "LLM_PROVIDER", "GEMINI_API_KEY", "LLM_MODEL",
		"GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "DATABASE_URL",
		"ARCHIVE_BUCKET", "ARCHIVE_ENDPOINT", "ARCHIVE_REGION", "ARCHIVE_ACCESS_KEY", "ARCHIVE_SECRET_KEY",
	} {
		t.Setenv(key, "")
	}
}

func seedStore(t *testing.T, dir string, records ...*types.CandidateRecord) []string {
	t.Helper()
	st, err := store.New(dir, nil)
	require.NoError(t, err)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		id, err := st.Save(r)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

const fullConversation = `Jane Doe
jane@example.com
+14155552671
5 years
Software Engineer
Berlin
Go, Django, PostgreSQL

Goroutines are scheduled by the runtime.
bye
`

func TestChat_SavesRecordOnExit(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out, err := runCLI(t, fullConversation, "chat", "--no-llm", "--data-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Welcome to TalentScout AI!")
	assert.Contains(t, out, "Great to meet you, Jane Doe!")
	assert.Contains(t, out, "[7/7 details collected]")
	assert.Contains(t, out, "1. What are some key features of Go")
	assert.Contains(t, out, "Thank you, Jane Doe!")
	require.Contains(t, out, "Your candidate ID: ")

	paths, err := filepath.Glob(filepath.Join(dir, "json", "*.json"))
	require.NoError(t, err)
	require.Len(t, paths, 1)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	var rec types.CandidateRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "jane@example.com", rec.Email)
	assert.Equal(t, "5 years", rec.Experience)
	assert.Equal(t, []string{"Go", "Django", "PostgreSQL"}, rec.TechStack)
	assert.Equal(t, "Goroutines are scheduled by the runtime.", rec.TechnicalAnswers)
	assert.Contains(t, out, "Your candidate ID: "+rec.CandidateID)
}

func TestChat_NoEmailNothingSaved(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out, err := runCLI(t, "Jane\nquit\n", "chat", "--no-llm", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Thank you, Jane!")
	assert.Contains(t, out, "nothing was saved")

	paths, _ := filepath.Glob(filepath.Join(dir, "json", "*.json"))
	assert.Empty(t, paths)
}

func TestChat_EndOfInputSaves(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out, err := runCLI(t, "Jane\njane@example.com\n", "chat", "--no-llm", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Thank you, Jane!")
	assert.Contains(t, out, "Your candidate ID: ")
}

func TestChat_LongLines(t *testing.T) {
	tests := []struct {
		name      string
		lineBytes int
		wantErr   string
	}{
		{name: "pasted answer over 64 KiB", lineBytes: 70000},
		{name: "line over the read limit", lineBytes: maxLineBytes + 1, wantErr: "failed to read input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()

			stdin := "Jane\njane@example.com\n" + strings.Repeat("x", tt.lineBytes) + "\nbye\n"
			out, err := runCLI(t, stdin, "chat", "--no-llm", "--data-dir", dir)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			assert.Contains(t, out, "Your candidate ID: ")

			paths, _ := filepath.Glob(filepath.Join(dir, "json", "*.json"))
			require.Len(t, paths, 1)
			data, err := os.ReadFile(paths[0])
			require.NoError(t, err)
			assert.Contains(t, string(data), "jane@example.com")
		})
	}
}

func TestChat_WithoutAPIKeyFallsBack(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	out, err := runCLI(t, fullConversation, "chat", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Technical Assessment Questions")
	assert.Contains(t, out, "5. How do you stay updated")
}

func TestCandidates_ListGetSearch(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	ids := seedStore(t, dir,
		&types.CandidateRecord{Name: "Jane Doe", Email: "jane@example.com", TechStack: []string{"Go"}},
		&types.CandidateRecord{Name: "Bob", Email: "bob@example.com"},
	)

	out, err := runCLI(t, "", "candidates", "list", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 2")
	assert.Contains(t, out, ids[0]+"  Jane Doe <jane@example.com>")

	out, err = runCLI(t, "", "candidates", "get", ids[1], "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "CANDIDATE "+ids[1])
	assert.Contains(t, out, "bob@example.com")

	_, err = runCLI(t, "", "candidates", "get", "ffffffffffff", "--data-dir", dir)
	assert.EqualError(t, err, "candidate ffffffffffff not found")

	out, err = runCLI(t, "", "candidates", "search", "JANE@example.com", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 1")
}

func TestCandidates_Delete(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	ids := seedStore(t, dir, &types.CandidateRecord{Email: "jane@example.com"})

	out, err := runCLI(t, "", "candidates", "delete", ids[0], "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "Deleted candidate "+ids[0]+"\n", out)

	_, err = runCLI(t, "", "candidates", "delete", ids[0], "--data-dir", dir)
	assert.EqualError(t, err, "candidate "+ids[0]+" not found")
}

func TestCandidates_Export(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	ids := seedStore(t, dir, &types.CandidateRecord{Email: "jane@example.com"})

	out, err := runCLI(t, "", "candidates", "export", ids[0], "--format", "csv", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "exports", ids[0]+"_export.csv"))

	_, err = runCLI(t, "", "candidates", "export", ids[0], "--format", "xml", "--data-dir", dir)
	assert.ErrorContains(t, err, "unsupported export format")

	_, err = runCLI(t, "", "candidates", "export", ids[0], "--upload", "--data-dir", dir)
	assert.ErrorContains(t, err, "--upload requires archive_bucket")
}

func TestCandidates_Stats(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	seedStore(t, dir,
		&types.CandidateRecord{Email: "a@x.com", Position: "Backend", Experience: "3 years", TechStack: []string{"Go"}},
		&types.CandidateRecord{Email: "b@x.com", Position: "Backend", Experience: "12 years", TechStack: []string{"Go", "Rust"}},
	)

	out, err := runCLI(t, "", "candidates", "stats", "--json", "--data-dir", dir)
	require.NoError(t, err)

	var stats types.Statistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 2, stats.TotalCandidates)
	assert.Equal(t, 2, stats.Positions["Backend"])
	assert.Equal(t, 2, stats.TechStackFrequency["Go"])
	assert.Equal(t, 1, stats.ExperienceRanges["10+ years"])

	out, err = runCLI(t, "", "candidates", "stats", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "CANDIDATE STATISTICS")
}

func TestCandidates_Match(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	seedStore(t, dir,
		&types.CandidateRecord{Name: "Gopher", Email: "go@x.com", TechStack: []string{"Go", "Kubernetes"}},
		&types.CandidateRecord{Name: "Pythonista", Email: "py@x.com", TechStack: []string{"Python"}},
	)

	out, err := runCLI(t, "", "candidates", "match", "--require", "go, kubernetes", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "100.00%  Gopher")
	assert.NotContains(t, out, "Pythonista")

	out, err = runCLI(t, "", "candidates", "match", "--require-text", "We need strong Python skills", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Pythonista")

	_, err = runCLI(t, "", "candidates", "match", "--data-dir", dir)
	assert.ErrorContains(t, err, "one of --require or --require-text is required")

	_, err = runCLI(t, "", "candidates", "match", "--require", "go", "--require-text", "go", "--data-dir", dir)
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestCandidates_SyncRequiresURL(t *testing.T) {
	clearEnv(t)

	_, err := runCLI(t, "", "candidates", "sync", "--data-dir", t.TempDir())
	assert.ErrorContains(t, err, "database URL is required")
}

func TestSettings_ConfigFileAndValidation(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfgPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"data_dir": "`+filepath.ToSlash(dir)+`"}`), 0644))
	_, err := runCLI(t, "", "candidates", "list", "--config", cfgPath)
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(dir, "json"))

	t.Setenv("LLM_PROVIDER", "openai")
	_, err = runCLI(t, "", "candidates", "list", "--data-dir", dir)
	assert.ErrorContains(t, err, "config error: 'provider' must be one of")
}

package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/talentscout/internal/archive"
	"github.com/jonathan/talentscout/internal/db"
	"github.com/jonathan/talentscout/internal/fields"
	"github.com/jonathan/talentscout/internal/observability"
	"github.com/jonathan/talentscout/internal/store"
	"github.com/jonathan/talentscout/internal/types"
	"github.com/spf13/cobra"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Review and manage stored candidates",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored candidates, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var getCmd = &cobra.Command{
	Use:   "get <candidate-id>",
	Short: "Show one stored candidate",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var searchCmd = &cobra.Command{
	Use:   "search <email>",
	Short: "Find candidates by email address (case-insensitive)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <candidate-id>",
	Short: "Delete a stored candidate",
	Long: "Delete the stored JSON record of a candidate and append an entry to deletion_log.txt.\n\n" +
		"The candidate's row in candidates_summary.csv and its entry in activity_log.txt are kept " +
		"as an audit trail and must be removed separately if required.",
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var exportCmd = &cobra.Command{
	Use:   "export <candidate-id>",
	Short: "Export a stored candidate as JSON or CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over stored candidates",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank stored candidates against required technologies",
	Args:  cobra.NoArgs,
	RunE:  runMatch,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror stored candidates into PostgreSQL",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

var (
	exportFormat string
	exportUpload bool
	statsJSON    bool
	matchRequire string
	matchText    string
	syncDBURL    string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json or csv")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "Upload the export to the configured archive bucket")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print statistics as JSON")
	matchCmd.Flags().StringVar(&matchRequire, "require", "", "Comma-separated required technologies")
	matchCmd.Flags().StringVar(&matchText, "require-text", "", "Free-text job description to derive required technologies from")
	syncCmd.Flags().StringVar(&syncDBURL, "db-url", "", "Database URL (overrides DATABASE_URL)")

	candidatesCmd.AddCommand(listCmd, getCmd, searchCmd, deleteCmd, exportCmd, statsCmd, matchCmd, syncCmd)
	rootCmd.AddCommand(candidatesCmd)
}

func notFound(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("candidate %s not found", id)
	}
	return err
}

func runList(cmd *cobra.Command, _ []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	records, err := st.ListAll(cmd.Context())
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintCandidateList(records)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	r, err := st.Get(args[0])
	if err != nil {
		return notFound(args[0], err)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintCandidate(r)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	records, err := st.SearchByEmail(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintCandidateList(records)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	deleted, err := st.Delete(args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("candidate %s not found", args[0])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted candidate %s\n", args[0])
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := types.ParseExportFormat(exportFormat)
	if err != nil {
		return err
	}
	if exportUpload && !settings.ArchiveEnabled() {
		return fmt.Errorf("--upload requires archive_bucket (or ARCHIVE_BUCKET) to be configured")
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	path, err := st.Export(args[0], format)
	if err != nil {
		return notFound(args[0], err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)

	if !exportUpload {
		return nil
	}
	uploader, err := archive.NewS3Uploader(cmd.Context(), archive.Options{
		Bucket:    settings.ArchiveBucket,
		Endpoint:  settings.ArchiveEndpoint,
		Region:    settings.ArchiveRegion,
		AccessKey: settings.ArchiveAccessKey,
		SecretKey: settings.ArchiveSecretKey,
	}, newLogger(cmd))
	if err != nil {
		return err
	}
	key, err := uploader.Upload(cmd.Context(), path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded to s3://%s/%s\n", settings.ArchiveBucket, key)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	stats, err := st.Statistics(cmd.Context())
	if err != nil {
		return err
	}

	if statsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintStatistics(stats)
	return nil
}

// requiredTechs resolves the --require / --require-text pair.
func requiredTechs() ([]string, error) {
	switch {
	case matchRequire != "" && matchText != "":
		return nil, fmt.Errorf("--require and --require-text are mutually exclusive")
	case matchRequire != "":
		return fields.ParseList(matchRequire), nil
	case matchText != "":
		return fields.ExtractKeywords(matchText), nil
	default:
		return nil, fmt.Errorf("one of --require or --require-text is required")
	}
}

func runMatch(cmd *cobra.Command, _ []string) error {
	required, err := requiredTechs()
	if err != nil {
		return err
	}
	if len(required) == 0 {
		return fmt.Errorf("no technologies found in the requirement")
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	matches, err := st.MatchCandidates(cmd.Context(), required)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintMatches(required, matches)
	return nil
}

func runSync(cmd *cobra.Command, _ []string) error {
	dbURL := syncDBURL
	if dbURL == "" {
		dbURL = settings.DatabaseURL
	}
	if dbURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or use --db-url flag)")
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	records, err := st.ListAll(cmd.Context())
	if err != nil {
		return err
	}

	database, err := db.Connect(cmd.Context(), dbURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(cmd.Context()); err != nil {
		return err
	}
	result, err := db.Sync(cmd.Context(), database, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Synced %d candidates (%d stale rows removed)\n", result.Upserted, result.Removed)
	return nil
}

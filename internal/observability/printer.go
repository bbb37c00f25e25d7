// Package observability provides logging setup and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/talentscout/internal/fields"
	"github.com/jonathan/talentscout/internal/store"
	"github.com/jonathan/talentscout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in tallies
	maxItemsToShow = 5
)

// Printer handles boxed output for the candidates commands.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		line = fields.TruncateText(line, boxWidth-4, "...")
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCandidate outputs every stored field of one record.
func (p *Printer) PrintCandidate(r *types.CandidateRecord) {
	if r == nil {
		return
	}

	var sb strings.Builder
	for _, kv := range r.Fields() {
		if kv[0] == "technical_answers" {
			continue
		}
		sb.WriteString(fmt.Sprintf("%-13s %s\n", kv[0]+":", kv[1]))
	}
	if r.TechnicalAnswers != "" {
		sb.WriteString("\nTechnical answers:\n")
		sb.WriteString(r.TechnicalAnswers)
	}

	p.printBox("CANDIDATE "+r.CandidateID, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidateList outputs one line per record.
func (p *Printer) PrintCandidateList(records []*types.CandidateRecord) {
	if len(records) == 0 {
		fmt.Fprintln(p.out, "No candidates found.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total: %d\n\n", len(records)))
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%s  %s <%s>\n", r.CandidateID, r.Name, r.Email))
		if r.Position != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", r.Position))
		}
	}

	p.printBox("CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStatistics outputs the aggregate tallies, most frequent first.
func (p *Printer) PrintStatistics(stats *types.Statistics) {
	if stats == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates: %d\n", stats.TotalCandidates))

	writeTally(&sb, "Positions", stats.Positions)
	writeTally(&sb, "Locations", stats.Locations)
	writeTally(&sb, "Tech stack", stats.TechStackFrequency)

	sb.WriteString("\nExperience:\n")
	for _, bucket := range types.ExperienceBuckets {
		sb.WriteString(fmt.Sprintf("  %-11s %d\n", bucket, stats.ExperienceRanges[bucket]))
	}

	p.printBox("CANDIDATE STATISTICS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeTally(sb *strings.Builder, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	sb.WriteString(fmt.Sprintf("\n%s:\n", title))
	count := min(len(keys), maxItemsToShow)
	for _, k := range keys[:count] {
		sb.WriteString(fmt.Sprintf("  • %s (%d)\n", k, counts[k]))
	}
	if len(keys) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(keys)-maxItemsToShow))
	}
}

// PrintMatches outputs scored candidates for a required tech list.
func (p *Printer) PrintMatches(required []string, matches []store.Match) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Required: %s\n\n", fields.FormatTechStack(required)))

	if len(matches) == 0 {
		sb.WriteString("No matching candidates.")
	}
	for i, m := range matches {
		sb.WriteString(fmt.Sprintf("#%d  %6.2f%%  %s <%s>\n", i+1, m.Score, m.Record.Name, m.Record.Email))
		sb.WriteString(fmt.Sprintf("    %s\n", fields.FormatTechStack(m.Record.TechStack)))
	}

	p.printBox("CANDIDATE MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

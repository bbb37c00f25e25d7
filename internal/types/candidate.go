// Package types provides type definitions for structured data used throughout the talentscout system.
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Candidate status values.
const (
	StatusPendingReview = "pending_review"
)

// CandidateRecord holds the fields collected for one candidate. Fields are
// filled stage by stage; an empty value means the stage has not accepted input yet.
// The last three fields are stamped when the record is persisted.
type CandidateRecord struct {
	CandidateID      string   `json:"candidate_id,omitempty"`
	Timestamp        string   `json:"timestamp,omitempty"`
	Status           string   `json:"status,omitempty"`
	Name             string   `json:"name,omitempty"`
	Email            string   `json:"email,omitempty" validate:"required"`
	Phone            string   `json:"phone,omitempty"`
	Experience       string   `json:"experience,omitempty"`
	Position         string   `json:"position,omitempty"`
	Location         string   `json:"location,omitempty"`
	TechStack        []string `json:"tech_stack,omitempty"`
	TechnicalAnswers string   `json:"technical_answers,omitempty"`
}

// ProgressFields are the fields counted towards conversation progress.
var ProgressFields = []string{"name", "email", "phone", "experience", "position", "location", "tech_stack"}

// Has reports whether the named field has been collected.
func (r *CandidateRecord) Has(field string) bool {
	switch field {
	case "candidate_id":
		return r.CandidateID != ""
	case "timestamp":
		return r.Timestamp != ""
	case "status":
		return r.Status != ""
	case "name":
		return r.Name != ""
	case "email":
		return r.Email != ""
	case "phone":
		return r.Phone != ""
	case "experience":
		return r.Experience != ""
	case "position":
		return r.Position != ""
	case "location":
		return r.Location != ""
	case "tech_stack":
		return len(r.TechStack) > 0
	case "technical_answers":
		return r.TechnicalAnswers != ""
	default:
		return false
	}
}

var validate = validator.New()

// ValidateForSave checks the fields the record store requires.
func (r *CandidateRecord) ValidateForSave() error {
	return validate.Struct(r)
}

// Clone returns a deep copy of the record.
func (r *CandidateRecord) Clone() *CandidateRecord {
	c := *r
	if r.TechStack != nil {
		c.TechStack = append([]string(nil), r.TechStack...)
	}
	return &c
}

// Fields returns the record flattened to (field, value) pairs in persisted
// key order, skipping absent fields. Sequences are joined with ", ".
func (r *CandidateRecord) Fields() [][2]string {
	all := [][2]string{
		{"candidate_id", r.CandidateID},
		{"timestamp", r.Timestamp},
		{"status", r.Status},
		{"name", r.Name},
		{"email", r.Email},
		{"phone", r.Phone},
		{"experience", r.Experience},
		{"position", r.Position},
		{"location", r.Location},
		{"tech_stack", strings.Join(r.TechStack, ", ")},
		{"technical_answers", r.TechnicalAnswers},
	}

	out := make([][2]string, 0, len(all))
	for _, kv := range all {
		if kv[1] != "" {
			out = append(out, kv)
		}
	}
	return out
}

// ExportFormat selects the serialization used by record export.
type ExportFormat string

// Export formats.
const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

// ParseExportFormat validates a user-supplied format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case ExportJSON:
		return ExportJSON, nil
	case ExportCSV:
		return ExportCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use json or csv)", s)
	}
}

package store

import (
	"strings"

	"github.com/jonathan/talentscout/internal/types"
)

// anonymize returns a copy of the candidate-supplied fields with contact
// details masked for the activity log.
func anonymize(r *types.CandidateRecord) *types.CandidateRecord {
	c := r.Clone()
	c.CandidateID = ""
	c.Timestamp = ""
	c.Status = ""
	if c.Email != "" {
		c.Email = maskEmail(c.Email)
	}
	if c.Phone != "" {
		c.Phone = maskPhone(c.Phone)
	}
	return c
}

// maskEmail keeps the first two characters of the local part and the domain.
func maskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local := []rune(parts[0])
	if len(local) > 2 {
		local = local[:2]
	}
	return string(local) + "***@" + parts[1]
}

// maskPhone keeps only the last four characters.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "***"
	}
	return "***" + phone[len(phone)-4:]
}

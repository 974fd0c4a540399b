package store

import (
	"regexp"
	"strings"

	"github.com/existflow/controlcentre/internal/model"
)

// DetectMentions scans a protocol description for literal @Name occurrences
// against the roster, case-insensitively. Longer names are consumed first
// so that "@Al" never matches inside "@Alex". Returned ids follow roster
// order.
func DetectMentions(description string, members []model.TeamMember) []string {
	if description == "" || len(members) == 0 {
		return []string{}
	}

	byLength := make([]model.TeamMember, len(members))
	copy(byLength, members)
	for i := 1; i < len(byLength); i++ {
		for j := i; j > 0 && len(byLength[j].Name) > len(byLength[j-1].Name); j-- {
			byLength[j], byLength[j-1] = byLength[j-1], byLength[j]
		}
	}

	matched := map[string]bool{}
	working := description
	for _, m := range byLength {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(name))
		if !re.MatchString(working) {
			continue
		}
		matched[m.ID] = true
		// Blank out consumed spans so shorter names can't match inside them.
		working = re.ReplaceAllStringFunc(working, func(s string) string {
			return strings.Repeat("\x00", len(s))
		})
	}

	ids := []string{}
	for _, m := range members {
		if matched[m.ID] {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Package mention resolves "@name" references in free text to team member ids.
// It is the single extraction path shared by project notes and task comments.
package mention

import (
	"regexp"
	"strings"

	"github.com/mathisescriva/crmdesk/internal/directory"
)

var tokenPattern = regexp.MustCompile(`@(\w+)`)

// Extract returns the roster member ids mentioned in text, ordered by first
// occurrence, each at most once. A token matches a member by id, by full
// display name with spaces removed, or by first name, all case-insensitive
// ("@sarah" and "@sarahchen" both resolve "Sarah Chen"). Tokens that resolve
// to nobody are dropped silently.
func Extract(text string, roster *directory.Roster) []string {
	if text == "" || roster == nil {
		return nil
	}

	var ids []string
	seen := make(map[string]struct{})
	for _, match := range tokenPattern.FindAllStringSubmatch(text, -1) {
		id, ok := resolve(match[1], roster)
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func resolve(token string, roster *directory.Roster) (string, bool) {
	lowered := strings.ToLower(token)
	for _, m := range roster.Members() {
		if strings.ToLower(m.ID) == lowered {
			return m.ID, true
		}
		compact := strings.ToLower(strings.ReplaceAll(m.Name, " ", ""))
		if compact == lowered {
			return m.ID, true
		}
		if first, _, _ := strings.Cut(strings.ToLower(m.Name), " "); first == lowered {
			return m.ID, true
		}
	}
	return "", false
}

// Package resolve matches free-text participant names to roster members.
//
// Raw tokens typically embed seat numbers and clan tags around the
// canonical name ("O-015 LovelyToonZ-1F"), so matching is done by
// substring containment, trying longer roster names first: a longer
// canonical name is a strictly more specific match, which keeps a short
// name from shadowing a longer co-occurring one ("Toon" inside
// "LovelyToonZ").
package resolve

import (
	"sort"
	"strings"

	"github.com/okian/rankdesk/internal/domain/member"
)

// Resolve returns the roster member whose name is a literal substring of
// raw, preferring the longest name. Matching is case-sensitive with no
// normalization. The second return is false when nothing matches; batch
// callers treat that as a skip, not a failure.
//
// Equal-length names that both match fall to a stable processing order;
// callers must not depend on which of them wins.
func Resolve(raw string, roster []member.Member) (member.Member, bool) {
	if strings.TrimSpace(raw) == "" {
		return member.Member{}, false
	}

	byLength := make([]member.Member, len(roster))
	copy(byLength, roster)
	sort.SliceStable(byLength, func(i, j int) bool {
		return len(byLength[i].Name) > len(byLength[j].Name)
	})

	for _, m := range byLength {
		if m.Name == "" {
			continue
		}
		if strings.Contains(raw, m.Name) {
			return m, true
		}
	}
	return member.Member{}, false
}

// Package upset detects giant-killing wins in completed bracket matches.
//
// A match qualifies when a low-scoring challenger beats a high-scoring
// giant. The score bands are fixed constants of the ranking season and
// are configuration, not derived from the roster.
package upset

import (
	"github.com/okian/rankdesk/internal/domain/member"
	"github.com/okian/rankdesk/internal/domain/resolve"
	"github.com/okian/rankdesk/internal/domain/scoring"
)

// Default season thresholds.
const (
	defaultChallengerMax = 99  // winner at or below this is a challenger
	defaultGiantMin      = 100 // loser at or above this is a giant
	defaultBonus         = 5   // points awarded per upset
)

// Upset is a detected giant-killing win with its bonus value.
type Upset struct {
	Winner member.Member
	Loser  member.Member
	Bonus  int
}

// Detector evaluates resolved match results against the season bands.
type Detector struct {
	challengerMax int
	giantMin      int
	bonus         int
}

// New creates a Detector with the season defaults, adjusted by options.
func New(opts ...Option) *Detector {
	d := &Detector{
		challengerMax: defaultChallengerMax,
		giantMin:      defaultGiantMin,
		bonus:         defaultBonus,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect resolves both participants of every match against the roster
// and returns the qualifying upsets in match order. Matches where either
// side fails to resolve are skipped, not errors. Minor events halve the
// bonus with ceiling division.
//
// Detect writes nothing; its output can be previewed before any ledger
// commit.
func (d *Detector) Detect(matches []member.MatchResult, roster []member.Member, minor bool) []Upset {
	bonus := d.bonus
	if minor {
		bonus = scoring.CeilHalf(bonus)
	}

	var out []Upset
	for _, m := range matches {
		winner, ok := resolve.Resolve(m.WinnerRawName, roster)
		if !ok {
			continue
		}
		loser, ok := resolve.Resolve(m.LoserRawName, roster)
		if !ok {
			continue
		}
		if winner.Score <= d.challengerMax && loser.Score >= d.giantMin {
			out = append(out, Upset{Winner: winner, Loser: loser, Bonus: bonus})
		}
	}
	return out
}

// Package fuzzy scores candidate paths against a typed query using
// case-insensitive subsequence matching. The match positions are chosen
// greedily left to right (earliest occurrence of each query character),
// and those exact positions drive both the score and the UI highlighting.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"

	"glancr/internal/domain"
)

// Scoring constants. The relative effect is the contract: matches starting
// a path segment beat mid-word matches, contiguous runs beat scattered
// characters, and unmatched path length drags the score down so short,
// tight paths win ties against long diffuse ones.
const (
	segmentStartBonus = 10 // match at index 0 or right after a separator
	contiguousBonus   = 5  // matched character adjacent to the previous one
	matchedCharScore  = 1  // every matched character
	lengthPenaltyDiv  = 2  // one point lost per this many unmatched chars
)

// Match is a ranked candidate.
type Match struct {
	Entry     domain.FileEntry
	Score     int
	Positions []int // rune indices into Entry.Path that matched
}

// Rank scores every entry against query and returns matches in descending
// score order; ties break by shorter path, then lexicographic path, so the
// order is a deterministic total order. Entries that do not contain the
// query as a subsequence are excluded. An empty query returns all entries
// in their original order with score 0.
func Rank(entries []domain.FileEntry, query string) []Match {
	if query == "" {
		out := make([]Match, len(entries))
		for i, e := range entries {
			out[i] = Match{Entry: e}
		}
		return out
	}

	q := []rune(strings.ToLower(query))
	var out []Match
	for _, e := range entries {
		if m, ok := score(e, q); ok {
			out = append(out, m)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if len(out[i].Entry.Path) != len(out[j].Entry.Path) {
			return len(out[i].Entry.Path) < len(out[j].Entry.Path)
		}
		return out[i].Entry.Path < out[j].Entry.Path
	})
	return out
}

// score matches q against the entry's path, greedy earliest occurrence per
// query rune. Reports ok=false when the subsequence is absent.
func score(e domain.FileEntry, q []rune) (Match, bool) {
	path := []rune(strings.ToLower(e.Path))

	positions := make([]int, 0, len(q))
	next := 0
	for _, qr := range q {
		found := -1
		for i := next; i < len(path); i++ {
			if path[i] == qr {
				found = i
				break
			}
		}
		if found < 0 {
			return Match{}, false
		}
		positions = append(positions, found)
		next = found + 1
	}

	s := 0
	for i, pos := range positions {
		s += matchedCharScore
		switch {
		case pos == 0 || isSeparator(path[pos-1]):
			s += segmentStartBonus
		case i > 0 && pos == positions[i-1]+1:
			s += contiguousBonus
		}
	}
	s -= (len(path) - len(positions)) / lengthPenaltyDiv

	return Match{Entry: e, Score: s, Positions: positions}, true
}

func isSeparator(r rune) bool {
	return r == '/' || r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
}

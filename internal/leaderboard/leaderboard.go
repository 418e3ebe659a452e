// Package leaderboard ranks the public registry.
package leaderboard

import (
	"sort"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/progress"
)

// minEntries is the registry size below which seed competitors are shown.
const minEntries = 5

const newStudentName = "New Student"

// seedCompetitors fill a sparse board.
var seedCompetitors = []entity.RegistryEntry{
	{Name: "Min Er (KMM)", Group: "Alpha Integrals", Avatar: entity.Avatars[1], Correct: 45, Total: 50},
	{Name: "Siva", Group: "Vector Vanguards", Avatar: entity.Avatars[3], Correct: 38, Total: 42},
	{Name: "Hidayah", Group: "Newton's Nomads", Avatar: entity.Avatars[4], Correct: 32, Total: 35},
}

// Row is one ranked line.
type Row struct {
	Rank     int
	Entry    entity.RegistryEntry
	Accuracy int
	IsMe     bool
}

// Options controls Build.
type Options struct {
	// GroupOnly restricts the board to the profile's group. Ignored when
	// the profile has no group.
	GroupOnly bool

	// NoSeed disables the seed competitors.
	NoSeed bool
}

// Build ranks registry with the local profile merged in. Rows are ordered by
// correct answers, then accuracy, then name.
func Build(registry []entity.RegistryEntry, me entity.Profile, opts Options) []Row {
	entries := append([]entity.RegistryEntry(nil), registry...)

	if !opts.NoSeed && len(entries) < minEntries {
		for _, s := range seedCompetitors {
			if indexOf(entries, s.Name) < 0 {
				entries = append(entries, s)
			}
		}
	}

	mine := entity.RegistryEntry{
		Name:    me.Name,
		Group:   me.Group,
		Avatar:  me.Avatar,
		Correct: me.CorrectAnswers,
		Total:   me.TotalAttempts,
	}
	if mine.Name == "" {
		mine.Name = newStudentName
	}
	if i := indexOf(entries, mine.Name); i >= 0 {
		mine.LastActive = entries[i].LastActive
		entries[i] = mine
	} else {
		entries = append(entries, mine)
	}

	if opts.GroupOnly && me.HasGroup() {
		filtered := entries[:0]
		for _, e := range entries {
			if e.Group == me.Group {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{
			Entry:    e,
			Accuracy: progress.Percent(e.Correct, e.Total),
			IsMe:     e.Name == mine.Name,
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Entry, rows[j].Entry
		if a.Correct != b.Correct {
			return a.Correct > b.Correct
		}
		// compare correct/total without rounding
		if l, r := a.Correct*max(b.Total, 1), b.Correct*max(a.Total, 1); l != r {
			return l > r
		}
		return a.Name < b.Name
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func indexOf(entries []entity.RegistryEntry, name string) int {
	for i, e := range entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

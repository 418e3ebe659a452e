package entity

import (
	"encoding/json"
	"slices"
	"time"
)

// DateLayout is the calendar-day format used for LastResetDate and JoinDate.
const DateLayout = "2006-01-02"

// SolveHistoryLimit caps Profile.SolveHistory.
const SolveHistoryLimit = 20

// NoGroup is the group label of a profile that has not joined a group.
const NoGroup = "None"

// Avatars is the selectable avatar set. The first entry is the default.
var Avatars = []string{"👨‍🏫", "👩‍🔬", "🧙‍♂️", "🤖", "🦊", "🚀", "🧠", "🎓"}

// Profile is the single local learner record.
type Profile struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
	Avatar      string `json:"avatar"`

	CorrectAnswers      int  `json:"correctAnswers"`
	TotalAttempts       int  `json:"totalAttempts"`
	DailyCorrectCount   int  `json:"dailyCorrectCount"`
	DailyGoalReached    bool `json:"dailyGoalReached"`
	DailyGoalTotalCount int  `json:"dailyGoalTotalCount"`

	LastResetDate  string `json:"lastResetDate"`
	JoinDate       string `json:"joinDate"`
	TotalTimeSpent int64  `json:"totalTimeSpent"` // seconds

	UnlockedBadges []string       `json:"unlockedBadges"`
	TopicHistory   []string       `json:"topicHistory"`
	ProblemStats   map[string]int `json:"problemStats"`
	TopicAttempts  map[string]int `json:"topicAttempts"`
	SolveHistory   []MathProblem  `json:"solveHistory"`

	// Extra holds stored fields this build does not know about. They are
	// written back unchanged on encode.
	Extra map[string]json.RawMessage `json:"-"`
}

// DefaultProfile returns a fresh profile stamped with now's calendar day.
func DefaultProfile(now time.Time) Profile {
	today := now.Format(DateLayout)
	return Profile{
		Group:          NoGroup,
		Avatar:         Avatars[0],
		LastResetDate:  today,
		JoinDate:       today,
		UnlockedBadges: []string{},
		TopicHistory:   []string{},
		ProblemStats:   map[string]int{},
		TopicAttempts:  map[string]int{},
		SolveHistory:   []MathProblem{},
	}
}

// HasBadge reports whether the badge id is unlocked.
func (p Profile) HasBadge(id string) bool {
	return slices.Contains(p.UnlockedBadges, id)
}

// HasGroup reports whether the profile belongs to a study group.
func (p Profile) HasGroup() bool {
	return p.Group != "" && p.Group != NoGroup
}

// RollOver resets the daily counters when LastResetDate is not today.
// It returns true when a reset happened.
func (p *Profile) RollOver(now time.Time) bool {
	today := now.Format(DateLayout)
	if p.LastResetDate == today {
		return false
	}
	p.DailyCorrectCount = 0
	p.DailyGoalReached = false
	p.LastResetDate = today
	return true
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	c := p
	c.UnlockedBadges = slices.Clone(p.UnlockedBadges)
	c.TopicHistory = slices.Clone(p.TopicHistory)
	c.ProblemStats = cloneCounts(p.ProblemStats)
	c.TopicAttempts = cloneCounts(p.TopicAttempts)
	c.SolveHistory = make([]MathProblem, len(p.SolveHistory))
	for i, sp := range p.SolveHistory {
		c.SolveHistory[i] = sp.Clone()
	}
	if p.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = slices.Clone(v)
		}
	}
	return c
}

func cloneCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

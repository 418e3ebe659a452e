package progress

import (
	"slices"
	"strings"

	"github.com/abhisek/mathquest/internal/entity"
)

// Achievement is a one-way unlockable badge.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Criteria    string
	Impact      string

	// GoalValue and StatKey drive the progress bar of count-based badges.
	GoalValue int
	StatKey   string

	unlocked func(p entity.Profile) bool
}

// Unlocked reports whether p currently meets the badge condition. It says
// nothing about whether the badge is already held.
func (a Achievement) Unlocked(p entity.Profile) bool {
	return a.unlocked(p)
}

const statKeyDailyGoals = "dailyGoalTotalCount"

// Achievements is the badge catalogue in display order.
var Achievements = []Achievement{
	{
		ID: "genesis", Name: "Math Genesis", Icon: "🌱",
		Description: "Solve your first problem successfully.",
		Criteria:    "1 correct answer",
		Impact:      "You have begun your journey towards mathematical mastery.",
		unlocked:    func(p entity.Profile) bool { return p.CorrectAnswers >= 1 },
	},
	{
		ID: "vector_apprentice", Name: "Vector Apprentice", Icon: "📐",
		Description: "Master the basics of spatial vectors.",
		Criteria:    "Solve 50 Basic Vector problems",
		Impact:      "Your understanding of spatial coordinates is now architect-grade.",
		GoalValue:   50,
		StatKey:     "Vector_1",
		unlocked:    func(p entity.Profile) bool { return p.ProblemStats["Vector_1"] >= 50 },
	},
	{
		ID: "polymath", Name: "Syllabus Polymath", Icon: "⚛️",
		Description: "Solve a problem from every major SM025 topic.",
		Criteria:    "Solve Integration, Vector, and Numerical problems",
		Impact:      "Your knowledge covers the full spectrum of the advanced syllabus.",
		unlocked: func(p entity.Profile) bool {
			for _, t := range entity.Topics {
				if !slices.Contains(p.TopicHistory, t) {
					return false
				}
			}
			return true
		},
	},
	{
		ID: "legend", Name: "KMM Legend", Icon: "🏆",
		Description: "Reach 100 correct solutions.",
		Criteria:    "100 correct answers",
		Impact:      "Your expertise is officially recognized across the campus.",
		GoalValue:   100,
		unlocked:    func(p entity.Profile) bool { return p.CorrectAnswers >= 100 },
	},
	{
		ID: "precision", Name: "Precision Architect", Icon: "🎯",
		Description: "Maintain over 90% accuracy.",
		Criteria:    "90% mastery (min 20 attempts)",
		Impact:      "You demonstrate an elite level of accuracy and focus.",
		unlocked: func(p entity.Profile) bool {
			// integer form of correct/total >= 0.90
			return p.TotalAttempts >= 20 && p.CorrectAnswers*10 >= p.TotalAttempts*9
		},
	},
	{
		ID: "devotion", Name: "Daily Devotion", Icon: "🔥",
		Description: "Hit your daily goal 5 times.",
		Criteria:    "5 daily goals completed",
		Impact:      "Consistency is the foundation of true academic success.",
		GoalValue:   5,
		StatKey:     statKeyDailyGoals,
		unlocked:    func(p entity.Profile) bool { return p.DailyGoalTotalCount >= 5 },
	},
	{
		ID: "advanced", Name: "Master Solver", Icon: "💠",
		Description: "Solve an Advanced (3-star) problem.",
		Criteria:    "Solve a difficulty 3 problem",
		Impact:      "You can handle the most complex spatial and numerical challenges.",
		unlocked: func(p entity.Profile) bool {
			for k, n := range p.ProblemStats {
				if n > 0 && strings.HasSuffix(k, "_3") {
					return true
				}
			}
			return false
		},
	},
}

// AchievementByID looks up a catalogue entry.
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Evaluate appends every newly satisfied badge to p.UnlockedBadges and
// returns the ids it added. Badges already held are never removed, so the
// result only grows.
func Evaluate(p *entity.Profile) []string {
	var added []string
	for _, a := range Achievements {
		if p.HasBadge(a.ID) {
			continue
		}
		if a.unlocked(*p) {
			p.UnlockedBadges = append(p.UnlockedBadges, a.ID)
			added = append(added, a.ID)
		}
	}
	return added
}

// BadgeProgress is the display state of one badge.
type BadgeProgress struct {
	Achievement Achievement
	Unlocked    bool
	Current     int
	Goal        int // zero for badges without a count goal
}

// AchievementProgress reports each badge's state for p. Current is capped
// at Goal.
func AchievementProgress(p entity.Profile) []BadgeProgress {
	out := make([]BadgeProgress, 0, len(Achievements))
	for _, a := range Achievements {
		bp := BadgeProgress{
			Achievement: a,
			Unlocked:    p.HasBadge(a.ID),
			Goal:        a.GoalValue,
		}
		if a.GoalValue > 0 {
			bp.Current = min(statValue(p, a), a.GoalValue)
		}
		out = append(out, bp)
	}
	return out
}

func statValue(p entity.Profile, a Achievement) int {
	switch a.StatKey {
	case "":
		return p.CorrectAnswers
	case statKeyDailyGoals:
		return p.DailyGoalTotalCount
	default:
		return p.ProblemStats[a.StatKey]
	}
}

package progress

import (
	"testing"
	"time"

	"github.com/abhisek/mathquest/internal/entity"
)

func newProfile() entity.Profile {
	return entity.DefaultProfile(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
}

func TestCountDailyCorrectOneShot(t *testing.T) {
	p := newProfile()
	total := 0
	for i := 1; i <= 15; i++ {
		bonus := CountDailyCorrect(&p)
		total += bonus
		if i == DailyGoal && bonus != DailyGoalBonus {
			t.Fatalf("answer %d: bonus = %d, want %d", i, bonus, DailyGoalBonus)
		}
		if i != DailyGoal && bonus != 0 {
			t.Fatalf("answer %d: unexpected bonus %d", i, bonus)
		}
	}
	if total != DailyGoalBonus {
		t.Errorf("total bonus = %d, want %d", total, DailyGoalBonus)
	}
	if !p.DailyGoalReached || p.DailyGoalTotalCount != 1 {
		t.Errorf("goal state = %v/%d, want true/1", p.DailyGoalReached, p.DailyGoalTotalCount)
	}
}

func TestCountDailyCorrectAlreadyReached(t *testing.T) {
	p := newProfile()
	p.DailyCorrectCount = 9
	p.DailyGoalReached = true
	if bonus := CountDailyCorrect(&p); bonus != 0 {
		t.Errorf("bonus = %d, want 0 when goal already reached", bonus)
	}
	if p.DailyGoalTotalCount != 0 {
		t.Errorf("DailyGoalTotalCount = %d, want 0", p.DailyGoalTotalCount)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		correct int
		level   int
		inLevel int
	}{
		{0, 1, 0},
		{9, 1, 90},
		{10, 2, 0},
		{25, 3, 50},
	}
	for _, tt := range tests {
		p := newProfile()
		p.CorrectAnswers = tt.correct
		got := LevelFor(p)
		if got.Level != tt.level || got.InLevel != tt.inLevel || got.XP != tt.correct*10 {
			t.Errorf("LevelFor(%d) = %+v, want level %d in-level %d", tt.correct, got, tt.level, tt.inLevel)
		}
	}
}

func TestRankFor(t *testing.T) {
	tests := []struct {
		name     string
		acc      int
		correct  int
		attempts int
		want     Rank
	}{
		{"grandmaster", 96, 21, 22, RankGrandmaster},
		{"high accuracy but few solves", 100, 20, 20, RankExpert},
		{"exactly 95 is expert", 95, 40, 42, RankExpert},
		{"exactly 80 is proficient", 80, 8, 10, RankProficient},
		{"competent", 50, 5, 10, RankCompetent},
		{"exactly 40 is learning", 40, 4, 10, RankLearning},
		{"no attempts", 0, 0, 0, RankNovice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RankFor(tt.acc, tt.correct, tt.attempts); got != tt.want {
				t.Errorf("RankFor(%d, %d, %d) = %s, want %s", tt.acc, tt.correct, tt.attempts, got, tt.want)
			}
		})
	}
}

func TestMasteryFor(t *testing.T) {
	p := newProfile()
	p.ProblemStats = map[string]int{"Integration_1": 3, "Integration_2": 2, "Integration_3": 1, "Vector_1": 9}
	p.TopicAttempts = map[string]int{"Integration": 9}

	m := MasteryFor(p, "Integration")
	if m.Correct != 6 || m.Attempts != 9 || m.Accuracy != 67 || m.Rank != RankProficient {
		t.Errorf("MasteryFor(Integration) = %+v", m)
	}

	// Vector has solves but no recorded attempts.
	if v := MasteryFor(p, "Vector"); v.Accuracy != 0 || v.Rank != RankNovice {
		t.Errorf("MasteryFor(Vector) = %+v, want 0%% Novice", v)
	}

	if got := len(Mastery(p)); got != len(entity.Topics) {
		t.Errorf("Mastery returned %d topics", got)
	}
}

func TestEvaluateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *entity.Profile)
		want   string
	}{
		{"genesis", func(p *entity.Profile) { p.CorrectAnswers, p.TotalAttempts = 1, 1 }, "genesis"},
		{"vector apprentice", func(p *entity.Profile) { p.ProblemStats["Vector_1"] = 50 }, "vector_apprentice"},
		{"polymath", func(p *entity.Profile) { p.TopicHistory = append([]string(nil), entity.Topics...) }, "polymath"},
		{"legend", func(p *entity.Profile) { p.CorrectAnswers, p.TotalAttempts = 100, 400 }, "legend"},
		{"precision", func(p *entity.Profile) { p.CorrectAnswers, p.TotalAttempts = 18, 20 }, "precision"},
		{"devotion", func(p *entity.Profile) { p.DailyGoalTotalCount = 5 }, "devotion"},
		{"advanced", func(p *entity.Profile) { p.ProblemStats["Integration_3"] = 1 }, "advanced"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProfile()
			tt.mutate(&p)
			Evaluate(&p)
			if !p.HasBadge(tt.want) {
				t.Errorf("badge %q not unlocked; have %v", tt.want, p.UnlockedBadges)
			}
		})
	}
}

func TestPrecisionBoundary(t *testing.T) {
	p := newProfile()
	p.CorrectAnswers, p.TotalAttempts = 17, 19
	Evaluate(&p)
	if p.HasBadge("precision") {
		t.Error("precision unlocked below 20 attempts")
	}

	p = newProfile()
	p.CorrectAnswers, p.TotalAttempts = 26, 29 // 89.6%
	Evaluate(&p)
	if p.HasBadge("precision") {
		t.Error("precision unlocked below 90%")
	}
}

func TestEvaluateMonotonic(t *testing.T) {
	p := newProfile()
	p.CorrectAnswers, p.TotalAttempts = 20, 20
	added := Evaluate(&p)
	if !p.HasBadge("precision") {
		t.Fatalf("precision not unlocked: %v", added)
	}

	// Accuracy drops well below 90%.
	p.TotalAttempts = 60
	if again := Evaluate(&p); len(again) != 0 {
		t.Errorf("re-evaluation added %v", again)
	}
	if !p.HasBadge("precision") {
		t.Error("precision revoked after accuracy dropped")
	}
	if n := len(p.UnlockedBadges); n != len(added) {
		t.Errorf("badge count changed from %d to %d", len(added), n)
	}
}

func TestAchievementProgress(t *testing.T) {
	p := newProfile()
	p.ProblemStats["Vector_1"] = 70
	p.DailyGoalTotalCount = 2

	byID := map[string]BadgeProgress{}
	for _, bp := range AchievementProgress(p) {
		byID[bp.Achievement.ID] = bp
	}
	if bp := byID["vector_apprentice"]; bp.Current != 50 || bp.Goal != 50 {
		t.Errorf("vector_apprentice = %d/%d, want 50/50 (capped)", bp.Current, bp.Goal)
	}
	if bp := byID["devotion"]; bp.Current != 2 || bp.Goal != 5 {
		t.Errorf("devotion = %d/%d, want 2/5", bp.Current, bp.Goal)
	}
	if bp := byID["genesis"]; bp.Goal != 0 {
		t.Errorf("genesis has goal %d", bp.Goal)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(2, 3); got != 67 {
		t.Errorf("Percent(2,3) = %d", got)
	}
	if got := Percent(5, 0); got != 0 {
		t.Errorf("Percent(5,0) = %d", got)
	}
}

// Package entity defines the persisted domain records: profile, rewards,
// study groups, the mistake notebook, discussions and the public registry.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh collision-resistant identifier.
func NewID() string {
	return uuid.NewString()
}

// Millis converts t to the unix-millisecond timestamps used on disk.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Reward is a user-defined redemption goal.
type Reward struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PointsNeeded int    `json:"pointsNeeded"`
	Redeemed     bool   `json:"redeemed"`
	CreatedAt    int64  `json:"createdAt"`
}

// StudyGroup is a named group joined by access code.
type StudyGroup struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// MatchesCode compares access codes case-insensitively.
func (g StudyGroup) MatchesCode(code string) bool {
	return strings.EqualFold(strings.TrimSpace(g.Code), strings.TrimSpace(code))
}

// DefaultGroups returns the seeded study groups.
func DefaultGroups() []StudyGroup {
	return []StudyGroup{
		{ID: "alpha", Name: "Alpha Integrals", Icon: "∫", Code: "ALPHA", Color: "blue"},
		{ID: "vector", Name: "Vector Vanguards", Icon: "→", Code: "VECTOR", Color: "emerald"},
		{ID: "newton", Name: "Newton's Nomads", Icon: "🍎", Code: "NEWTON", Color: "purple"},
	}
}

// GroupColors and GroupIcons are the choices offered when creating a group.
var (
	GroupColors = []string{"blue", "emerald", "purple", "rose", "amber", "indigo"}
	GroupIcons  = []string{"🔢", "🧮", "📐", "🧪", "⚛️", "🍎", "∫", "→", "🧬", "🧠", "🔭", "🏛️"}
)

// MistakeRecord is a mistake-notebook entry.
type MistakeRecord struct {
	Problem MathProblem `json:"problem"`
	AddedAt int64       `json:"addedAt"`
}

// DiscussionComment is an append-only reply on a post.
type DiscussionComment struct {
	ID           string `json:"id"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar"`
	Text         string `json:"text"`
	CreatedAt    int64  `json:"createdAt"`
}

// DiscussionPost shares a problem with a study group.
type DiscussionPost struct {
	ID           string              `json:"id"`
	GroupName    string              `json:"groupName"`
	AuthorName   string              `json:"authorName"`
	AuthorAvatar string              `json:"authorAvatar"`
	Problem      MathProblem         `json:"problem"`
	Timestamp    int64               `json:"timestamp"`
	Comments     []DiscussionComment `json:"comments"`
}

// RegistryEntry mirrors a profile into the public leaderboard registry.
type RegistryEntry struct {
	Name       string `json:"name"`
	Group      string `json:"group"`
	Avatar     string `json:"avatar"`
	Correct    int    `json:"correct"`
	Total      int    `json:"total"`
	LastActive int64  `json:"lastActive"`
}

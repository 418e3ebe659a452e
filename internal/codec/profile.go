package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/mathquest/internal/entity"
)

// record is a JSON object kept as raw fields so unknown keys survive.
type record map[string]json.RawMessage

const fieldSchemaVersion = "schemaVersion"

// profileFields are the keys the Profile struct owns. Anything else is
// carried in Profile.Extra.
var profileFields = map[string]bool{
	"name": true, "description": true, "group": true, "avatar": true,
	"correctAnswers": true, "totalAttempts": true, "dailyCorrectCount": true,
	"dailyGoalReached": true, "dailyGoalTotalCount": true,
	"lastResetDate": true, "joinDate": true, "totalTimeSpent": true,
	"unlockedBadges": true, "topicHistory": true, "problemStats": true,
	"topicAttempts": true, "solveHistory": true,
	fieldSchemaVersion: true,
}

// legacy date formats written by the first release
const (
	legacyResetLayout = "Mon Jan 02 2006"
	legacyJoinLayout  = "2/1/2006"
	legacyNoGroup     = "Tiada"
)

// DecodeProfile parses the stored profile, upgrading older schema versions,
// filling every missing field from the default profile and applying the
// daily rollover for now. changed reports whether the result differs from
// what is stored (migration or rollover) and should be written back.
func DecodeProfile(raw string, ok bool, now time.Time) (p entity.Profile, changed bool, err error) {
	p = entity.DefaultProfile(now)
	if !ok || strings.TrimSpace(raw) == "" {
		return p, false, nil
	}

	var rec record
	if uerr := json.Unmarshal([]byte(raw), &rec); uerr != nil || rec == nil {
		if uerr == nil {
			uerr = errors.New("profile is not an object")
		}
		return p, false, malformed(KeyProfile, uerr)
	}

	var version string
	if v, ok := rec[fieldSchemaVersion]; ok {
		_ = json.Unmarshal(v, &version)
	}
	migrated, merr := migrate(rec, version)
	if merr != nil {
		return entity.DefaultProfile(now), false, malformed(KeyProfile, merr)
	}
	changed = migrated != normalizeVersion(version)

	var errs []error
	fill(rec, "name", &p.Name, &errs)
	fill(rec, "description", &p.Description, &errs)
	fill(rec, "group", &p.Group, &errs)
	fill(rec, "avatar", &p.Avatar, &errs)
	fill(rec, "correctAnswers", &p.CorrectAnswers, &errs)
	fill(rec, "totalAttempts", &p.TotalAttempts, &errs)
	fill(rec, "dailyCorrectCount", &p.DailyCorrectCount, &errs)
	fill(rec, "dailyGoalReached", &p.DailyGoalReached, &errs)
	fill(rec, "dailyGoalTotalCount", &p.DailyGoalTotalCount, &errs)
	fill(rec, "lastResetDate", &p.LastResetDate, &errs)
	fill(rec, "joinDate", &p.JoinDate, &errs)
	fill(rec, "totalTimeSpent", &p.TotalTimeSpent, &errs)
	fill(rec, "unlockedBadges", &p.UnlockedBadges, &errs)
	fill(rec, "topicHistory", &p.TopicHistory, &errs)
	fill(rec, "problemStats", &p.ProblemStats, &errs)
	fill(rec, "topicAttempts", &p.TopicAttempts, &errs)
	fill(rec, "solveHistory", &p.SolveHistory, &errs)

	for k, v := range rec {
		if profileFields[k] {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[k] = v
	}

	normalizeProfile(&p, now)
	if p.RollOver(now) {
		changed = true
	}

	if len(errs) > 0 {
		return p, changed, malformed(KeyProfile, errors.Join(errs...))
	}
	return p, changed, nil
}

// fill decodes rec[key] into dst. Missing and null fields keep the default;
// a field of the wrong type keeps the default and is reported.
func fill[T any](rec record, key string, dst *T, errs *[]error) {
	raw, ok := rec[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		*errs = append(*errs, &fieldError{Field: key, Err: err})
		return
	}
	*dst = v
}

type fieldError struct {
	Field string
	Err   error
}

func (e *fieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *fieldError) Unwrap() error { return e.Err }

// normalizeProfile restores the Profile invariants on decoded data.
func normalizeProfile(p *entity.Profile, now time.Time) {
	p.Group = migrateGroupName(p.Group)
	if p.Avatar == "" {
		p.Avatar = entity.Avatars[0]
	}
	if p.JoinDate == "" {
		p.JoinDate = now.Format(entity.DateLayout)
	}

	p.CorrectAnswers = max(p.CorrectAnswers, 0)
	p.TotalAttempts = max(p.TotalAttempts, p.CorrectAnswers)
	p.DailyCorrectCount = max(p.DailyCorrectCount, 0)
	p.DailyGoalTotalCount = max(p.DailyGoalTotalCount, 0)
	p.TotalTimeSpent = max(p.TotalTimeSpent, 0)

	p.UnlockedBadges = dedupe(p.UnlockedBadges)
	p.TopicHistory = dedupe(p.TopicHistory)
	if p.ProblemStats == nil {
		p.ProblemStats = map[string]int{}
	}
	if p.TopicAttempts == nil {
		p.TopicAttempts = map[string]int{}
	}
	if p.SolveHistory == nil {
		p.SolveHistory = []entity.MathProblem{}
	}
	if len(p.SolveHistory) > entity.SolveHistoryLimit {
		p.SolveHistory = p.SolveHistory[:entity.SolveHistoryLimit]
	}
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func migrateGroupName(g string) string {
	if g == "" || g == legacyNoGroup {
		return entity.NoGroup
	}
	return g
}

// migrateProfileV1 rewrites the first release's field formats: locale date
// strings and the untranslated "no group" label.
func migrateProfileV1(rec record) error {
	var group string
	if raw, ok := rec["group"]; ok && json.Unmarshal(raw, &group) == nil {
		if err := setString(rec, "group", migrateGroupName(group)); err != nil {
			return err
		}
	}
	if err := reformatDate(rec, "lastResetDate", legacyResetLayout); err != nil {
		return err
	}
	return reformatDate(rec, "joinDate", legacyJoinLayout)
}

// reformatDate converts rec[key] from layout to entity.DateLayout. Values
// already in the current layout, or in neither, are left alone.
func reformatDate(rec record, key, layout string) error {
	raw, ok := rec[key]
	if !ok {
		return nil
	}
	var s string
	if json.Unmarshal(raw, &s) != nil || s == "" {
		return nil
	}
	if _, err := time.Parse(entity.DateLayout, s); err == nil {
		return nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil
	}
	return setString(rec, key, t.Format(entity.DateLayout))
}

func setString(rec record, key, v string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	rec[key] = b
	return nil
}

// EncodeProfile serializes p with the current schema version. Fields kept in
// p.Extra are written back unchanged.
func EncodeProfile(p entity.Profile) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return "", err
	}
	for k, v := range p.Extra {
		if profileFields[k] {
			continue
		}
		rec[k] = v
	}
	if err := setString(rec, fieldSchemaVersion, ProfileVersion); err != nil {
		return "", err
	}
	out, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Package codec converts domain entities to and from the string values kept
// in the store.
//
// Decoding never fails the caller: a missing key yields the entity default,
// and a payload that cannot be parsed yields the default together with an
// error wrapping ErrMalformed so the caller can log it (or, during sync,
// ignore the update).
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/mathquest/internal/entity"
)

// Store keys, one serialized entity per key.
const (
	KeyPoints     = "math_points"
	KeyRewards    = "math_rewards"
	KeyGroups     = "math_global_groups"
	KeyProfile    = "math_profile"
	KeyNotebook   = "math_notebook"
	KeyDiscussion = "math_discussions"
	KeyRegistry   = "math_public_registry"
)

// Keys lists every entity key in load order.
var Keys = []string{
	KeyPoints, KeyRewards, KeyGroups, KeyProfile,
	KeyNotebook, KeyDiscussion, KeyRegistry,
}

// ErrMalformed marks a stored value that could not be decoded.
var ErrMalformed = errors.New("malformed stored value")

// DecodeError reports which key failed to decode.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

func malformed(key string, err error) error {
	return &DecodeError{Key: key, Err: err}
}

// DecodePoints parses the points balance. Legacy values written as floats
// are truncated; negative balances clamp to zero.
func DecodePoints(raw string, ok bool) (int, error) {
	if !ok {
		return 0, nil
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, malformed(KeyPoints, err)
		}
		n = int(f)
	}
	return max(n, 0), nil
}

// EncodePoints renders the balance as a decimal string.
func EncodePoints(n int) string {
	return strconv.Itoa(n)
}

// decodeList unmarshals a JSON array. JSON null counts as empty.
func decodeList[T any](key, raw string, ok bool) ([]T, error) {
	if !ok || strings.TrimSpace(raw) == "" {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []T{}, malformed(key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func encodeList[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeRewards parses the reward list, filling missing ids.
func DecodeRewards(raw string, ok bool) ([]entity.Reward, error) {
	rewards, err := decodeList[entity.Reward](KeyRewards, raw, ok)
	for i := range rewards {
		if rewards[i].ID == "" {
			rewards[i].ID = entity.NewID()
		}
		rewards[i].PointsNeeded = max(rewards[i].PointsNeeded, 0)
	}
	return rewards, err
}

func EncodeRewards(v []entity.Reward) (string, error) { return encodeList(v) }

// DecodeGroups parses the study groups. An absent or unreadable value falls
// back to the seeded groups; a stored empty list stays empty.
func DecodeGroups(raw string, ok bool) ([]entity.StudyGroup, error) {
	if !ok || strings.TrimSpace(raw) == "" {
		return entity.DefaultGroups(), nil
	}
	groups, err := decodeList[entity.StudyGroup](KeyGroups, raw, ok)
	if err != nil {
		return entity.DefaultGroups(), err
	}
	for i := range groups {
		g := &groups[i]
		g.Code = strings.ToUpper(strings.TrimSpace(g.Code))
		if g.ID == "" {
			g.ID = entity.NewID()
		}
		if g.Icon == "" {
			g.Icon = entity.GroupIcons[0]
		}
		if g.Color == "" {
			g.Color = entity.GroupColors[0]
		}
	}
	return groups, nil
}

func EncodeGroups(v []entity.StudyGroup) (string, error) { return encodeList(v) }

// DecodeNotebook parses the mistake notebook. Later duplicates of a problem
// id are dropped.
func DecodeNotebook(raw string, ok bool) ([]entity.MistakeRecord, error) {
	records, err := decodeList[entity.MistakeRecord](KeyNotebook, raw, ok)
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, r := range records {
		if r.Problem.ID == "" || seen[r.Problem.ID] {
			continue
		}
		seen[r.Problem.ID] = true
		out = append(out, r)
	}
	return out, err
}

func EncodeNotebook(v []entity.MistakeRecord) (string, error) { return encodeList(v) }

// DecodeDiscussions parses discussion posts.
func DecodeDiscussions(raw string, ok bool) ([]entity.DiscussionPost, error) {
	posts, err := decodeList[entity.DiscussionPost](KeyDiscussion, raw, ok)
	for i := range posts {
		if posts[i].Comments == nil {
			posts[i].Comments = []entity.DiscussionComment{}
		}
		posts[i].GroupName = migrateGroupName(posts[i].GroupName)
	}
	return posts, err
}

func EncodeDiscussions(v []entity.DiscussionPost) (string, error) { return encodeList(v) }

// DecodeRegistry parses the public registry.
func DecodeRegistry(raw string, ok bool) ([]entity.RegistryEntry, error) {
	entries, err := decodeList[entity.RegistryEntry](KeyRegistry, raw, ok)
	for i := range entries {
		entries[i].Group = migrateGroupName(entries[i].Group)
	}
	return entries, err
}

func EncodeRegistry(v []entity.RegistryEntry) (string, error) { return encodeList(v) }

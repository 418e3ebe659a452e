package codec

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/entity"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func TestDecodePoints(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		ok      bool
		want    int
		wantErr bool
	}{
		{"absent", "", false, 0, false},
		{"integer", "120", true, 120, false},
		{"padded", " 45 \n", true, 45, false},
		{"float", "30.0", true, 30, false},
		{"negative clamps", "-5", true, 0, false},
		{"garbage", "lots", true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePoints(tt.raw, tt.ok)
			if got != tt.want {
				t.Errorf("DecodePoints(%q) = %d, want %d", tt.raw, got, tt.want)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
		})
	}
}

func TestDecodeGroupsDefaults(t *testing.T) {
	groups, err := DecodeGroups("", false)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultGroups(), groups)

	groups, err = DecodeGroups("{not json", true)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Len(t, groups, 3, "malformed groups fall back to the seeded set")

	groups, err = DecodeGroups("[]", true)
	require.NoError(t, err)
	assert.Empty(t, groups, "a stored empty list stays empty")
}

func TestDecodeGroupsNormalizesCodes(t *testing.T) {
	groups, err := DecodeGroups(`[{"id":"g1","name":"Limits","code":" calc "}]`, true)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "CALC", groups[0].Code)
	assert.NotEmpty(t, groups[0].Icon)
	assert.NotEmpty(t, groups[0].Color)
}

func TestDecodeNotebookDedupes(t *testing.T) {
	raw := `[
		{"problem":{"id":"p1","question":"q1"},"addedAt":1},
		{"problem":{"id":"p1","question":"q1 again"},"addedAt":2},
		{"problem":{"id":"p2","question":"q2"},"addedAt":3}
	]`
	records, err := DecodeNotebook(raw, true)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "q1", records[0].Problem.Question, "first record wins")
	assert.Equal(t, "p2", records[1].Problem.ID)
}

func TestDecodeListsMalformed(t *testing.T) {
	rewards, err := DecodeRewards(`{"id":1}`, true)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Empty(t, rewards)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, KeyRewards, de.Key)

	posts, err := DecodeDiscussions("null", true)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestDecodeRewardsFillsIDs(t *testing.T) {
	rewards, err := DecodeRewards(`[{"name":"Bubble tea","pointsNeeded":150}]`, true)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.NotEmpty(t, rewards[0].ID)
	assert.Equal(t, 150, rewards[0].PointsNeeded)
}

func TestDecodeDiscussionsMigratesGroup(t *testing.T) {
	posts, err := DecodeDiscussions(`[{"id":"d1","groupName":"Tiada","problem":{"id":"p"}}]`, true)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, entity.NoGroup, posts[0].GroupName)
	assert.NotNil(t, posts[0].Comments)
}

func TestEncodeListsNeverNull(t *testing.T) {
	s, err := EncodeRewards(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)
}

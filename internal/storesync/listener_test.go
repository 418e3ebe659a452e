package storesync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquest/internal/codec"
	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/store"
)

// startListener runs a listener for c on st and returns a channel that
// receives every applied change.
func startListener(t *testing.T, st store.Store, c *state.Controller) <-chan store.Change {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	applied := make(chan store.Change, 16)
	l := New(st, c, nil)
	l.OnApplied(func(ch store.Change) { applied <- ch })

	done, err := l.Start(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return applied
}

func waitApplied(t *testing.T, ch <-chan store.Change, key string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-ch:
			if c.Key == key {
				return
			}
		case <-deadline:
			t.Fatalf("change to %q never applied", key)
		}
	}
}

func TestListenerAppliesOtherContextWrites(t *testing.T) {
	ctx := context.Background()
	m := store.NewMedium()

	aStore, bStore := m.Open(), m.Open()
	a, err := state.New(ctx, aStore)
	require.NoError(t, err)
	b, err := state.New(ctx, bStore)
	require.NoError(t, err)

	applied := startListener(t, bStore, b)

	_, err = a.CreateGroup(ctx, "Series Squad", "SERIES", "", "")
	require.NoError(t, err)
	waitApplied(t, applied, codec.KeyGroups)
	require.Len(t, b.Snapshot().Groups, 4)

	_, err = a.RecordCorrectAnswer(ctx, entity.MathProblem{
		ID: entity.NewID(), Question: "2+2?", Options: []string{"3", "4", "5", "6"},
		CorrectIndex: 1, Topic: "Vector", Difficulty: entity.DifficultyBasic,
	}, state.PointsCorrect)
	require.NoError(t, err)
	waitApplied(t, applied, codec.KeyPoints)
	require.Equal(t, 10, b.Points())
}

func TestListenerIgnoresMalformedPayload(t *testing.T) {
	ctx := context.Background()
	m := store.NewMedium()
	other, bStore := m.Open(), m.Open()
	b, err := state.New(ctx, bStore)
	require.NoError(t, err)

	applied := startListener(t, bStore, b)

	require.NoError(t, other.Set(ctx, codec.KeyPoints, "40"))
	waitApplied(t, applied, codec.KeyPoints)
	require.Equal(t, 40, b.Points())

	require.NoError(t, other.Set(ctx, codec.KeyPoints, "forty"))
	waitApplied(t, applied, codec.KeyPoints)
	require.Equal(t, 40, b.Points(), "malformed value is no update")
}

func TestListenerSeesOwnWritesOnlyDirectly(t *testing.T) {
	ctx := context.Background()
	st := store.NewMedium().Open()
	c, err := state.New(ctx, st)
	require.NoError(t, err)

	applied := startListener(t, st, c)

	_, err = c.AddReward(ctx, "Nap", 10)
	require.NoError(t, err)
	select {
	case ch := <-applied:
		t.Fatalf("own write echoed back: %+v", ch)
	case <-time.After(100 * time.Millisecond):
	}
	require.Len(t, c.Snapshot().Rewards, 1)
}

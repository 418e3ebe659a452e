package state

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/mathquest/internal/entity"
)

// AddReward creates an unredeemed reward.
func (c *Controller) AddReward(ctx context.Context, name string, pointsNeeded int) (entity.Reward, error) {
	name = strings.TrimSpace(name)
	if err := validate(rewardInput{Name: name, PointsNeeded: pointsNeeded}); err != nil {
		return entity.Reward{}, err
	}
	var r entity.Reward
	_, err := c.mutate(ctx, func(d *Snapshot, now time.Time) error {
		r = entity.Reward{
			ID:           entity.NewID(),
			Name:         name,
			PointsNeeded: pointsNeeded,
			CreatedAt:    entity.Millis(now),
		}
		d.Rewards = append(d.Rewards, r)
		return nil
	})
	if err != nil {
		return entity.Reward{}, err
	}
	return r, nil
}

// RedeemReward spends the reward's cost and marks it redeemed. With too few
// points it returns ErrInsufficientPoints and nothing changes.
func (c *Controller) RedeemReward(ctx context.Context, id string) (entity.Reward, error) {
	var r entity.Reward
	_, err := c.mutate(ctx, func(d *Snapshot, _ time.Time) error {
		i := rewardIndex(d.Rewards, id)
		if i < 0 {
			return &NotFoundError{Kind: "reward", ID: id}
		}
		if d.Rewards[i].Redeemed {
			return ErrRewardRedeemed
		}
		if d.Points < d.Rewards[i].PointsNeeded {
			return ErrInsufficientPoints
		}
		d.Points -= d.Rewards[i].PointsNeeded
		d.Rewards[i].Redeemed = true
		r = d.Rewards[i]
		return nil
	})
	if err != nil {
		return entity.Reward{}, err
	}
	return r, nil
}

// RemoveReward deletes an unredeemed reward.
func (c *Controller) RemoveReward(ctx context.Context, id string) error {
	_, err := c.mutate(ctx, func(d *Snapshot, _ time.Time) error {
		i := rewardIndex(d.Rewards, id)
		if i < 0 {
			return &NotFoundError{Kind: "reward", ID: id}
		}
		if d.Rewards[i].Redeemed {
			return ErrRewardRedeemed
		}
		d.Rewards = slices.Delete(d.Rewards, i, i+1)
		return nil
	})
	return err
}

func rewardIndex(rewards []entity.Reward, id string) int {
	return slices.IndexFunc(rewards, func(r entity.Reward) bool { return r.ID == id })
}

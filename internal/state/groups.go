package state

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/mathquest/internal/entity"
)

// CreateGroup adds a study group and moves the profile into it. Codes are
// unique ignoring case and stored upper-cased. Icon and color default to
// the first choice when empty.
func (c *Controller) CreateGroup(ctx context.Context, name, code, icon, color string) (entity.StudyGroup, error) {
	name = strings.TrimSpace(name)
	code = strings.ToUpper(strings.TrimSpace(code))
	if icon == "" {
		icon = entity.GroupIcons[0]
	}
	if color == "" {
		color = entity.GroupColors[0]
	}
	if err := validate(groupInput{Name: name, Code: code, Icon: icon, Color: color}); err != nil {
		return entity.StudyGroup{}, err
	}

	g := entity.StudyGroup{
		ID:    entity.NewID(),
		Name:  name,
		Code:  code,
		Icon:  icon,
		Color: color,
	}
	_, err := c.mutate(ctx, func(d *Snapshot, _ time.Time) error {
		for _, existing := range d.Groups {
			if existing.MatchesCode(code) {
				return ErrDuplicateCode
			}
		}
		d.Groups = append(d.Groups, g)
		d.Profile.Group = g.Name
		return nil
	})
	if err != nil {
		return entity.StudyGroup{}, err
	}
	return g, nil
}

// JoinGroup moves the profile into the group with the given access code.
func (c *Controller) JoinGroup(ctx context.Context, code string) (entity.StudyGroup, error) {
	var joined entity.StudyGroup
	_, err := c.mutate(ctx, func(d *Snapshot, _ time.Time) error {
		for _, g := range d.Groups {
			if g.MatchesCode(code) {
				joined = g
				d.Profile.Group = g.Name
				return nil
			}
		}
		return ErrGroupNotFound
	})
	if err != nil {
		return entity.StudyGroup{}, err
	}
	return joined, nil
}

// LeaveGroup clears the profile's group.
func (c *Controller) LeaveGroup(ctx context.Context) error {
	_, err := c.mutate(ctx, func(d *Snapshot, _ time.Time) error {
		d.Profile.Group = entity.NoGroup
		return nil
	})
	return err
}

// CurrentGroup returns the profile's group, if it still exists.
func (c *Controller) CurrentGroup() (entity.StudyGroup, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, g := range c.data.Groups {
		if g.Name == c.data.Profile.Group {
			return g, true
		}
	}
	return entity.StudyGroup{}, false
}

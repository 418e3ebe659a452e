package state

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/mathquest/internal/entity"
)

// anonymousAuthor is shown for posts made before the profile has a name.
const anonymousAuthor = "Student"

// PostDiscussion shares problem with the profile's current group. New posts
// go to the front of the list.
func (c *Controller) PostDiscussion(ctx context.Context, problem entity.MathProblem) (entity.DiscussionPost, error) {
	if err := validate(problemInputOf(problem)); err != nil {
		return entity.DiscussionPost{}, err
	}
	var post entity.DiscussionPost
	_, err := c.mutate(ctx, func(d *Snapshot, now time.Time) error {
		if !d.Profile.HasGroup() {
			return ErrNoGroup
		}
		post = entity.DiscussionPost{
			ID:           entity.NewID(),
			GroupName:    d.Profile.Group,
			AuthorName:   authorName(d.Profile),
			AuthorAvatar: d.Profile.Avatar,
			Problem:      problem.Clone(),
			Timestamp:    entity.Millis(now),
			Comments:     []entity.DiscussionComment{},
		}
		d.Discussions = append([]entity.DiscussionPost{post}, d.Discussions...)
		return nil
	})
	if err != nil {
		return entity.DiscussionPost{}, err
	}
	return post, nil
}

// AddComment appends a reply to a post.
func (c *Controller) AddComment(ctx context.Context, postID, text string) (entity.DiscussionComment, error) {
	text = strings.TrimSpace(text)
	if err := validate(commentInput{Text: text}); err != nil {
		return entity.DiscussionComment{}, err
	}
	var comment entity.DiscussionComment
	_, err := c.mutate(ctx, func(d *Snapshot, now time.Time) error {
		i := slices.IndexFunc(d.Discussions, func(p entity.DiscussionPost) bool { return p.ID == postID })
		if i < 0 {
			return &NotFoundError{Kind: "post", ID: postID}
		}
		comment = entity.DiscussionComment{
			ID:           entity.NewID(),
			AuthorName:   authorName(d.Profile),
			AuthorAvatar: d.Profile.Avatar,
			Text:         text,
			CreatedAt:    entity.Millis(now),
		}
		d.Discussions[i].Comments = append(d.Discussions[i].Comments, comment)
		return nil
	})
	if err != nil {
		return entity.DiscussionComment{}, err
	}
	return comment, nil
}

// Discussions lists the posts of the profile's current group, newest first.
func (c *Controller) Discussions() []entity.DiscussionPost {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []entity.DiscussionPost
	for _, p := range c.data.Discussions {
		if p.GroupName == c.data.Profile.Group {
			p.Comments = slices.Clone(p.Comments)
			out = append(out, p)
		}
	}
	return out
}

func authorName(p entity.Profile) string {
	if p.Name == "" {
		return anonymousAuthor
	}
	return p.Name
}

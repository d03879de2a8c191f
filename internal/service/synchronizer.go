package service

import (
	"context"
	"log/slog"
	"time"

	"story_sync/internal/domain"
	"story_sync/internal/mapping"
)

// Synchronizer pushes one story to the CMS and links the resulting item back.
type Synchronizer struct {
	items   ItemWriter
	stories StoryStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewSynchronizer(items ItemWriter, stories StoryStore, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		items:   items,
		stories: stories,
		logger:  logger,
		now:     time.Now,
	}
}

// SyncStory updates the linked item when the story has one and creates an
// item otherwise, then writes the item id back onto the story. The two writes
// are independent; a failed link leaves the created item in place.
func (s *Synchronizer) SyncStory(ctx context.Context, story *domain.Story) (domain.SyncResult, error) {
	fields := mapping.Map(story, mapping.VariantBatch)
	slug, _ := fields[mapping.FieldSlug].(string)

	res := domain.SyncResult{
		StoryID: story.ID,
		Title:   mapping.Title(story),
		Slug:    slug,
		Action:  domain.ActionCreate,
	}

	if story.DecodeErr != nil {
		res.Err = newSyncError(story.ID, "decode story", story.DecodeErr)
		return res, res.Err
	}

	var itemID string
	var err error
	if story.Linked() {
		res.Action = domain.ActionUpdate
		itemID, err = s.items.UpdateItem(ctx, story.WebflowItemID, fields)
	} else {
		itemID, err = s.items.CreateItem(ctx, fields)
	}
	if err != nil {
		res.Err = newSyncError(story.ID, string(res.Action)+" item", err)
		return res, res.Err
	}
	res.ItemID = itemID

	if err := s.stories.LinkItem(ctx, story.ID, itemID, s.now()); err != nil {
		res.Err = newSyncError(story.ID, "link item", err)
		return res, res.Err
	}

	s.logger.Debug("story synced",
		"story_id", story.ID,
		"item_id", itemID,
		"action", res.Action,
	)

	return res, nil
}

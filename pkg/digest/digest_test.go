package digest

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitgar/business-coach-sub001/pkg/eventbus"
	"github.com/vitgar/business-coach-sub001/pkg/events"
	"github.com/vitgar/business-coach-sub001/pkg/models"
	"github.com/vitgar/business-coach-sub001/pkg/persistence/file"
)

type capturingPublisher struct {
	published []eventbus.Event
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event eventbus.Event) error {
	p.published = append(p.published, event)

	return nil
}

func seedItem(t *testing.T, p *file.Persistence, id, owner, category string, completed bool, createdAt time.Time) {
	t.Helper()

	item := &models.ActionItem{
		ID:          id,
		Content:     "task " + id,
		Category:    category,
		Owner:       owner,
		IsCompleted: completed,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if completed {
		item.CompletedAt = &createdAt
	}

	require.NoError(t, p.ActionItemRepository().Save(t.Context(), item))
}

func TestNewScheduler_ValidatesSchedule(t *testing.T) {
	p := file.NewPersistence(t.TempDir())

	_, err := NewScheduler("", p, &capturingPublisher{}, slog.Default())
	require.Error(t, err)

	_, err = NewScheduler("not a cron line", p, &capturingPublisher{}, slog.Default())
	require.Error(t, err)

	s, err := NewScheduler("0 8 * * *", p, &capturingPublisher{}, slog.Default())
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestRun_OneDigestPerOwner(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	publisher := &capturingPublisher{}

	oldest := time.Now().UTC().Add(-48 * time.Hour)
	newer := time.Now().UTC().Add(-1 * time.Hour)

	seedItem(t, p, "item-1", "user-1", "Sales", false, oldest)
	seedItem(t, p, "item-2", "user-1", "Sales", false, newer)
	seedItem(t, p, "item-3", "user-1", "", false, newer)
	seedItem(t, p, "item-4", "user-2", "Ops", false, newer)
	// Completed items are left out of the digest.
	seedItem(t, p, "item-5", "user-1", "Sales", true, newer)

	s, err := NewScheduler("0 8 * * *", p, publisher, slog.Default())
	require.NoError(t, err)

	require.NoError(t, s.Run(t.Context()))
	require.Len(t, publisher.published, 2)

	byOwner := make(map[string]events.ActionItemsDigest)

	for _, event := range publisher.published {
		digest, ok := event.(events.ActionItemsDigest)
		require.True(t, ok)
		byOwner[digest.Owner] = digest
	}

	user1 := byOwner["user-1"]
	assert.Equal(t, 3, user1.OpenCount)
	assert.Equal(t, 2, user1.ByCategory["Sales"])
	require.NotNil(t, user1.OldestOpen)
	assert.WithinDuration(t, oldest, *user1.OldestOpen, time.Second)

	user2 := byOwner["user-2"]
	assert.Equal(t, 1, user2.OpenCount)
	assert.Equal(t, 1, user2.ByCategory["Ops"])
}

func TestRun_NoOpenItems(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	publisher := &capturingPublisher{}

	s, err := NewScheduler("0 8 * * *", p, publisher, slog.Default())
	require.NoError(t, err)

	require.NoError(t, s.Run(t.Context()))
	assert.Empty(t, publisher.published)
}

package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/internal/repository"
	"github.com/zoquest/backend/pkg/testutil"
	"github.com/zoquest/backend/pkg/xcontext"
)

func TestSecurityEventRepository_DeleteOlderThan(t *testing.T) {
	ctx := testutil.MockContext()
	securityEventRepo := repository.NewSecurityEventRepository()

	err := securityEventRepo.Create(ctx, &entity.SecurityEvent{
		Base:   entity.Base{ID: "old"},
		UserID: "user1",
	})
	require.NoError(t, err)

	err = securityEventRepo.Create(ctx, &entity.SecurityEvent{
		Base:   entity.Base{ID: "recent"},
		UserID: "user1",
	})
	require.NoError(t, err)

	// Backdate one event past the retention window.
	err = xcontext.DB(ctx).
		Model(&entity.SecurityEvent{}).
		Where("id=?", "old").
		Update("created_at", time.Now().Add(-100*24*time.Hour)).Error
	require.NoError(t, err)

	n, err := securityEventRepo.DeleteOlderThan(ctx, time.Now().Add(-90*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	events, err := securityEventRepo.GetList(ctx, repository.SecurityEventFilter{UserID: "user1"}, 0, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "recent", events[0].ID)
}

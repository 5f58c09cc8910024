package repository_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/internal/repository"
	"github.com/zoquest/backend/pkg/testutil"
	"gorm.io/gorm"
)

func TestBalanceRepository_Increase(t *testing.T) {
	ctx := testutil.MockContext()
	balanceRepo := repository.NewBalanceRepository()

	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	// Crediting a user without a balance row is an error, not a silent no-op.
	err = balanceRepo.IncreaseTokens(ctx, user.ID, 100)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = balanceRepo.Create(ctx, &entity.Balance{
		Base:   entity.Base{ID: "balance1"},
		UserID: user.ID,
	})
	require.NoError(t, err)

	require.NoError(t, balanceRepo.IncreaseTokens(ctx, user.ID, 100))
	require.NoError(t, balanceRepo.IncreaseTokens(ctx, user.ID, 50))
	require.NoError(t, balanceRepo.IncreaseReputation(ctx, user.ID, 10))

	balance, err := balanceRepo.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(150), balance.ZoTokens)
	require.Equal(t, int64(10), balance.Reputation)

	// One balance row per user.
	err = balanceRepo.Create(ctx, &entity.Balance{
		Base:   entity.Base{ID: "balance2"},
		UserID: user.ID,
	})
	require.Error(t, err)
}

package repository

import (
	"context"
	"errors"

	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceRepository interface {
	Create(ctx context.Context, data *entity.Balance) error
	Get(ctx context.Context, userID string) (*entity.Balance, error)

	// GetForUpdate reads the balance row with a row-level write lock. Inside a
	// transaction this serializes every concurrent completion of the user.
	GetForUpdate(ctx context.Context, userID string) (*entity.Balance, error)

	IncreaseTokens(ctx context.Context, userID string, amount int64) error
	IncreaseReputation(ctx context.Context, userID string, amount int64) error
}

type balanceRepository struct{}

func NewBalanceRepository() *balanceRepository {
	return &balanceRepository{}
}

func (r *balanceRepository) Create(ctx context.Context, data *entity.Balance) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *balanceRepository) Get(ctx context.Context, userID string) (*entity.Balance, error) {
	result := entity.Balance{}
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *balanceRepository) GetForUpdate(ctx context.Context, userID string) (*entity.Balance, error) {
	tx := xcontext.DB(ctx)

	// Sqlite has no row locks; its single writer serializes transactions on
	// its own. Other dialects need the explicit lock.
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	result := entity.Balance{}
	if err := tx.Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *balanceRepository) IncreaseTokens(ctx context.Context, userID string, amount int64) error {
	return r.increase(ctx, userID, "zo_tokens", amount)
}

func (r *balanceRepository) IncreaseReputation(ctx context.Context, userID string, amount int64) error {
	return r.increase(ctx, userID, "reputation", amount)
}

func (r *balanceRepository) increase(ctx context.Context, userID, column string, amount int64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Balance{}).
		Where("user_id=?", userID).
		Update(column, gorm.Expr(column+"+?", amount))

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/pkg/xcontext"
)

type SecurityEventFilter struct {
	UserID  string
	QuestID string
}

type SecurityEventRepository interface {
	Create(ctx context.Context, data *entity.SecurityEvent) error
	GetList(ctx context.Context, filter SecurityEventFilter, offset, limit int) ([]entity.SecurityEvent, error)
	DeleteOlderThan(ctx context.Context, t time.Time) (int64, error)
}

type securityEventRepository struct{}

func NewSecurityEventRepository() *securityEventRepository {
	return &securityEventRepository{}
}

func (r *securityEventRepository) Create(ctx context.Context, data *entity.SecurityEvent) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *securityEventRepository) GetList(
	ctx context.Context, filter SecurityEventFilter, offset, limit int,
) ([]entity.SecurityEvent, error) {
	result := []entity.SecurityEvent{}
	tx := xcontext.DB(ctx).
		Offset(offset).
		Limit(limit).
		Order("created_at desc")

	if filter.UserID != "" {
		tx.Where("user_id=?", filter.UserID)
	}

	if filter.QuestID != "" {
		tx.Where("quest_id=?", filter.QuestID)
	}

	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *securityEventRepository) DeleteOlderThan(ctx context.Context, t time.Time) (int64, error) {
	tx := xcontext.DB(ctx).Where("created_at < ?", t).Delete(&entity.SecurityEvent{})
	return tx.RowsAffected, tx.Error
}

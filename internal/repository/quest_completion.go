package repository

import (
	"context"

	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/pkg/xcontext"
)

type QuestCompletionFilter struct {
	UserID  string
	QuestID string
}

type QuestCompletionRepository interface {
	Create(ctx context.Context, data *entity.QuestCompletion) error
	GetByID(ctx context.Context, id string) (*entity.QuestCompletion, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.QuestCompletion, error)
	GetLast(ctx context.Context, userID, questID string) (*entity.QuestCompletion, error)
	Count(ctx context.Context, filter QuestCompletionFilter) (int64, error)
}

type questCompletionRepository struct{}

func NewQuestCompletionRepository() *questCompletionRepository {
	return &questCompletionRepository{}
}

func (r *questCompletionRepository) Create(ctx context.Context, data *entity.QuestCompletion) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *questCompletionRepository) GetByID(ctx context.Context, id string) (*entity.QuestCompletion, error) {
	result := entity.QuestCompletion{}
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questCompletionRepository) GetByIdempotencyKey(
	ctx context.Context, key string,
) (*entity.QuestCompletion, error) {
	result := entity.QuestCompletion{}
	if err := xcontext.DB(ctx).Take(&result, "idempotency_key=?", key).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questCompletionRepository) GetLast(
	ctx context.Context, userID, questID string,
) (*entity.QuestCompletion, error) {
	result := entity.QuestCompletion{}
	if err := xcontext.DB(ctx).
		Where("user_id=? AND quest_id=?", userID, questID).
		Order("created_at desc").
		First(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *questCompletionRepository) Count(
	ctx context.Context, filter QuestCompletionFilter,
) (int64, error) {
	var count int64
	tx := xcontext.DB(ctx).Model(&entity.QuestCompletion{})

	if filter.UserID != "" {
		tx.Where("user_id=?", filter.UserID)
	}

	if filter.QuestID != "" {
		tx.Where("quest_id=?", filter.QuestID)
	}

	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

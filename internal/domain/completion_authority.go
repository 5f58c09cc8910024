package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/internal/repository"
	"github.com/zoquest/backend/pkg/errorx"
	"github.com/zoquest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// CompleteInput is one adjudicated completion attempt. The amount has already
// been computed server-side.
type CompleteInput struct {
	UserID        string
	QuestID       string
	CooldownHours int

	Score    int64
	Location string
	Amount   int64

	IdempotencyKey string
	Metadata       entity.Map
}

type CompleteResult struct {
	CompletionID    string
	AwardedAmount   int64
	NextAvailableAt *time.Time

	// Duplicate marks an idempotent replay of an already accepted attempt.
	// Nothing was credited again.
	Duplicate bool
}

// CompletionAuthority is the atomic gate deciding whether an attempt becomes a
// completion. The whole decision runs in a single database transaction holding
// a row lock on the user's balance, so two concurrent attempts for the same
// (user, quest) can never both pass the cooldown check.
type CompletionAuthority struct {
	completionRepo repository.QuestCompletionRepository
	balanceRepo    repository.BalanceRepository
}

func NewCompletionAuthority(
	completionRepo repository.QuestCompletionRepository,
	balanceRepo repository.BalanceRepository,
) *CompletionAuthority {
	return &CompletionAuthority{
		completionRepo: completionRepo,
		balanceRepo:    balanceRepo,
	}
}

func (a *CompletionAuthority) Complete(ctx context.Context, input CompleteInput) (*CompleteResult, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// The balance row is the serialization anchor. Locking it serializes
	// concurrent attempts of this user even when the completion history is
	// still empty.
	if err := a.lockBalance(ctx, input.UserID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot lock balance of user %s: %v", input.UserID, err)
		return nil, errorx.Unknown
	}

	// A retried attempt with a known idempotency key collapses into the
	// original completion without crediting twice.
	if input.IdempotencyKey != "" {
		previous, err := a.completionRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil {
			return &CompleteResult{
				CompletionID:    previous.ID,
				AwardedAmount:   previous.AwardedAmount,
				NextAvailableAt: nextAvailableAt(previous.CreatedAt, input.CooldownHours),
				Duplicate:       true,
			}, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot check idempotency key: %v", err)
			return nil, errorx.Unknown
		}
	}

	last, err := a.completionRepo.GetLast(ctx, input.UserID, input.QuestID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get last completion: %v", err)
		return nil, errorx.Unknown
	}

	if err == nil && input.CooldownHours > 0 {
		next := nextAvailableAt(last.CreatedAt, input.CooldownHours)
		if time.Now().Before(*next) {
			return nil, errorx.New(errorx.TooManyRequests, "Quest is on cooldown").
				WithDetail("next_available_at", next)
		}
	}

	completion := &entity.QuestCompletion{
		Base:          entity.Base{ID: uuid.NewString()},
		UserID:        input.UserID,
		QuestID:       input.QuestID,
		Score:         input.Score,
		Location:      input.Location,
		AwardedAmount: input.Amount,
		Metadata:      input.Metadata,
	}

	if input.IdempotencyKey != "" {
		completion.IdempotencyKey = sql.NullString{Valid: true, String: input.IdempotencyKey}
	}

	// Record and credit are a single unit of work: either both land or the
	// transaction rolls back.
	if err := a.completionRepo.Create(ctx, completion); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create completion: %v", err)
		return nil, errorx.Unknown
	}

	if err := a.balanceRepo.IncreaseTokens(ctx, input.UserID, input.Amount); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot credit tokens: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &CompleteResult{
		CompletionID:    completion.ID,
		AwardedAmount:   input.Amount,
		NextAvailableAt: nextAvailableAt(completion.CreatedAt, input.CooldownHours),
	}, nil
}

// lockBalance takes the row lock, creating the balance row for first-time
// users. A concurrent creator loses on the user_id unique index; the loser
// surfaces a retryable storage error.
func (a *CompletionAuthority) lockBalance(ctx context.Context, userID string) error {
	_, err := a.balanceRepo.GetForUpdate(ctx, userID)
	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return a.balanceRepo.Create(ctx, &entity.Balance{
		Base:   entity.Base{ID: uuid.NewString()},
		UserID: userID,
	})
}

func nextAvailableAt(lastCompleted time.Time, cooldownHours int) *time.Time {
	if cooldownHours <= 0 {
		return nil
	}

	next := lastCompleted.Add(time.Duration(cooldownHours) * time.Hour)
	return &next
}

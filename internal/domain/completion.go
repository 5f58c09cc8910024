package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zoquest/backend/internal/domain/questreward"
	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/internal/model"
	"github.com/zoquest/backend/internal/repository"
	"github.com/zoquest/backend/pkg/errorx"
	"github.com/zoquest/backend/pkg/xcontext"
	"github.com/zoquest/backend/pkg/xredis"
	"gorm.io/gorm"
)

// reputation granted alongside the token reward of an accepted completion.
const completionReputation = 10

type CompletionDomain interface {
	Complete(ctx context.Context, req *model.CompleteQuestRequest) (*model.CompleteQuestResponse, error)
	GetQuest(ctx context.Context, req *model.GetQuestRequest) (*model.GetQuestResponse, error)
	GetBalance(ctx context.Context, req *model.GetBalanceRequest) (*model.GetBalanceResponse, error)
}

type completionDomain struct {
	questRepo   repository.QuestRepository
	userRepo    repository.UserRepository
	balanceRepo repository.BalanceRepository
	authority   *CompletionAuthority
	auditor     *questreward.Auditor
	redisClient xredis.Client
}

func NewCompletionDomain(
	questRepo repository.QuestRepository,
	userRepo repository.UserRepository,
	completionRepo repository.QuestCompletionRepository,
	balanceRepo repository.BalanceRepository,
	auditor *questreward.Auditor,
	redisClient xredis.Client,
) *completionDomain {
	return &completionDomain{
		questRepo:   questRepo,
		userRepo:    userRepo,
		balanceRepo: balanceRepo,
		authority:   NewCompletionAuthority(completionRepo, balanceRepo),
		auditor:     auditor,
		redisClient: redisClient,
	}
}

func (d *completionDomain) Complete(
	ctx context.Context, req *model.CompleteQuestRequest,
) (*model.CompleteQuestResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user_id")
	}

	if req.QuestID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty quest_id")
	}

	quest, err := d.questRepo.GetBySlug(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.Status != entity.QuestActive {
		return nil, errorx.New(errorx.Unavailable, "Only allow to complete active quests")
	}

	if _, err := d.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user, please complete onboarding first")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	reward, err := questreward.NewReward(ctx, *quest)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Invalid reward rule of quest %s: %v", quest.Slug, err)
		return nil, errorx.Unknown
	}

	if reward.NeedScore() && req.Score == nil {
		return nil, errorx.New(errorx.BadRequest, "This quest requires a score")
	}

	var score int64
	if req.Score != nil {
		score = *req.Score
	}

	amount := reward.Calculate(score)

	// Observational only; the audit never changes the awarded amount.
	d.auditor.Audit(ctx, *quest, userID, score, req.ClaimedReward, amount)

	metadata := entity.Map{}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	metadata[entity.MetadataServerCalculatedTokens] = amount
	if req.ClaimedReward != nil {
		metadata[entity.MetadataClientSubmittedTokens] = *req.ClaimedReward
	}

	result, err := d.authority.Complete(ctx, CompleteInput{
		UserID:         userID,
		QuestID:        quest.ID,
		CooldownHours:  quest.CooldownHours,
		Score:          score,
		Location:       req.Location,
		Amount:         amount,
		IdempotencyKey: req.IdempotencyKey,
		Metadata:       metadata,
	})
	if err != nil {
		return nil, err
	}

	reputation := int64(0)
	if !result.Duplicate {
		reputation = completionReputation
		d.applySideEffects(ctx, userID)
	}

	return &model.CompleteQuestResponse{
		Success:         true,
		CompletionID:    result.CompletionID,
		Rewards:         model.Rewards{ZoTokens: result.AwardedAmount, Reputation: reputation, Items: []string{}},
		NextAvailableAt: result.NextAvailableAt,
	}, nil
}

// applySideEffects fires the best-effort post-success updates. Failures are
// logged and never bubble up to the completion response.
func (d *completionDomain) applySideEffects(ctx context.Context, userID string) {
	if err := d.balanceRepo.IncreaseReputation(ctx, userID, completionReputation); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot increase reputation of user %s: %v", userID, err)
	}

	if d.redisClient == nil {
		return
	}

	day := time.Now().UTC().Format("2006-01-02")
	key := fmt.Sprintf("streak:%s:%s", userID, day)
	if _, err := d.redisClient.Incr(ctx, key); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update streak of user %s: %v", userID, err)
	}
}

func (d *completionDomain) GetQuest(
	ctx context.Context, req *model.GetQuestRequest,
) (*model.GetQuestResponse, error) {
	if req.QuestID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty quest_id")
	}

	quest, err := d.questRepo.GetBySlug(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetQuestResponse{
		ID:            quest.ID,
		Slug:          quest.Slug,
		Title:         quest.Title,
		Description:   quest.Description,
		Status:        string(quest.Status),
		CooldownHours: quest.CooldownHours,
		RewardType:    string(quest.RewardType),
	}, nil
}

func (d *completionDomain) GetBalance(
	ctx context.Context, req *model.GetBalanceRequest,
) (*model.GetBalanceResponse, error) {
	userID := req.UserID
	if userID == "" {
		userID = xcontext.RequestUserID(ctx)
	}

	if userID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user_id")
	}

	balance, err := d.balanceRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.GetBalanceResponse{UserID: userID}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get balance: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetBalanceResponse{
		UserID:     userID,
		ZoTokens:   balance.ZoTokens,
		Reputation: balance.Reputation,
	}, nil
}

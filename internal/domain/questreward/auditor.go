package questreward

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/internal/repository"
	"github.com/zoquest/backend/pkg/pubsub"
	"github.com/zoquest/backend/pkg/xcontext"
)

// Auditor passively compares client-claimed rewards with server-computed ones.
// It records and publishes a flagged event on a suspicious mismatch but never
// blocks or alters the completion outcome; its own failures are only logged.
type Auditor struct {
	securityEventRepo repository.SecurityEventRepository
	publisher         pubsub.Publisher
}

func NewAuditor(
	securityEventRepo repository.SecurityEventRepository,
	publisher pubsub.Publisher,
) *Auditor {
	return &Auditor{
		securityEventRepo: securityEventRepo,
		publisher:         publisher,
	}
}

func (a *Auditor) Audit(
	ctx context.Context, quest entity.Quest, userID string, score int64, claimed *int64, computed int64,
) {
	if claimed == nil {
		return
	}

	diff := *claimed - computed
	if diff < 0 {
		diff = -diff
	}

	if diff <= xcontext.Configs(ctx).Quest.ClaimedRewardTolerance {
		return
	}

	event := &entity.SecurityEvent{
		Base:           entity.Base{ID: uuid.NewString()},
		UserID:         userID,
		QuestID:        quest.ID,
		Score:          score,
		ClaimedAmount:  *claimed,
		ComputedAmount: computed,
		Reason:         "claimed reward mismatch",
	}

	xcontext.Logger(ctx).Warnf(
		"Suspicious reward claim of user %s on quest %s: claimed=%d computed=%d",
		userID, quest.Slug, *claimed, computed)

	if err := a.securityEventRepo.Create(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record security event: %v", err)
	}

	if a.publisher == nil {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal security event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.SecurityEventTopic
	pack := &pubsub.Pack{Key: []byte(userID), Msg: msg}
	if err := a.publisher.Publish(ctx, topic, pack); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish security event: %v", err)
	}
}

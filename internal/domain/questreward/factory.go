package questreward

import (
	"context"

	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/pkg/errorx"
)

// NewReward builds the reward rule declared by the quest. Dispatch is on the
// declared rule type only, never on the quest slug.
func NewReward(ctx context.Context, quest entity.Quest) (Reward, error) {
	switch quest.RewardType {
	case entity.RewardFixed:
		return newFixedReward(ctx, quest.RewardData)

	case entity.RewardProximity:
		return newProximityReward(ctx, quest.RewardData)

	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid reward type %s", quest.RewardType)
	}
}

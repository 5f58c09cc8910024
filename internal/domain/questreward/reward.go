package questreward

import (
	"context"
	stdmath "math"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/math"
	"github.com/zoquest/backend/pkg/errorx"
	"github.com/zoquest/backend/pkg/xcontext"
)

// decode accepts json-roundtripped numbers, which arrive as float64.
func decode(data map[string]any, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}

// Fixed reward
type fixedReward struct {
	Amount int64 `mapstructure:"amount" structs:"amount"`
}

func newFixedReward(ctx context.Context, data map[string]any) (*fixedReward, error) {
	reward := fixedReward{}
	if err := decode(data, &reward); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if reward.Amount < 0 {
		return nil, errorx.New(errorx.BadRequest, "Reward amount must not be negative")
	}

	return &reward, nil
}

func (r *fixedReward) NeedScore() bool {
	return false
}

func (r *fixedReward) Calculate(score int64) int64 {
	return r.Amount
}

// Proximity reward pays more as the score approaches the target.
type proximityReward struct {
	Target    int64 `mapstructure:"target" structs:"target"`
	Base      int64 `mapstructure:"base" structs:"base"`
	BonusSpan int64 `mapstructure:"bonus_span" structs:"bonus_span"`
	MinBound  int64 `mapstructure:"min_bound" structs:"min_bound"`
	MaxBound  int64 `mapstructure:"max_bound" structs:"max_bound"`
}

func newProximityReward(ctx context.Context, data map[string]any) (*proximityReward, error) {
	reward := proximityReward{}
	if err := decode(data, &reward); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if reward.Target <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Proximity target must be positive")
	}

	if reward.MinBound > reward.MaxBound {
		return nil, errorx.New(errorx.BadRequest, "Invalid proximity bounds")
	}

	return &reward, nil
}

func (r *proximityReward) NeedScore() bool {
	return true
}

func (r *proximityReward) Calculate(score int64) int64 {
	distance := score - r.Target
	if distance < 0 {
		distance = -distance
	}

	proximity := 1 - float64(distance)/float64(r.Target)
	if proximity < 0 {
		proximity = 0
	}

	amount := int64(stdmath.Round(float64(r.Base) + proximity*float64(r.BonusSpan)))
	return math.MinInt64(math.MaxInt64(amount, r.MinBound), r.MaxBound)
}

package model

import "time"

type CompleteQuestRequest struct {
	UserID  string `json:"user_id"`
	QuestID string `json:"quest_id"`

	Score     *int64   `json:"score,omitempty"`
	Location  string   `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// ClaimedReward is the reward the client thinks it earned. It is audited
	// against the server-computed amount but never trusted for crediting.
	ClaimedReward *int64 `json:"claimed_reward,omitempty"`

	// IdempotencyKey is a stable per-attempt token generated by the client so
	// retries of the same attempt collapse into a single completion.
	IdempotencyKey string `json:"idempotency_key,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

type Rewards struct {
	ZoTokens   int64    `json:"zo_tokens"`
	Reputation int64    `json:"reputation"`
	Items      []string `json:"items"`
}

type CompleteQuestResponse struct {
	Success         bool       `json:"success"`
	CompletionID    string     `json:"completion_id"`
	Rewards         Rewards    `json:"rewards"`
	NextAvailableAt *time.Time `json:"next_available_at,omitempty"`
}

type GetQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type GetQuestResponse struct {
	ID            string `json:"id"`
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	CooldownHours int    `json:"cooldown_hours"`
	RewardType    string `json:"reward_type"`
}

type GetBalanceRequest struct {
	UserID string `json:"user_id"`
}

type GetBalanceResponse struct {
	UserID     string `json:"user_id"`
	ZoTokens   int64  `json:"zo_tokens"`
	Reputation int64  `json:"reputation"`
}

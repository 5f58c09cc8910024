package entity

import "database/sql"

// Metadata keys recorded on every completion for the anti-tamper audit trail.
const (
	MetadataServerCalculatedTokens = "server_calculated_tokens"
	MetadataClientSubmittedTokens  = "client_submitted_tokens"
)

// QuestCompletion is one accepted completion attempt. Rows are append-only:
// they are never updated or deleted once written.
type QuestCompletion struct {
	Base

	UserID string `gorm:"index:idx_completions_user_quest,priority:1"`
	User   User   `gorm:"foreignKey:UserID"`

	QuestID string `gorm:"index:idx_completions_user_quest,priority:2"`
	Quest   Quest  `gorm:"foreignKey:QuestID"`

	Score    int64
	Location string

	// AwardedAmount is always the server-computed value, never the amount the
	// client claimed.
	AwardedAmount int64

	// IdempotencyKey dedupes client retries of the same logical attempt. The
	// unique index rejects a duplicate insert even when two retries race.
	IdempotencyKey sql.NullString `gorm:"uniqueIndex"`

	Metadata Map
}

package entity

// SecurityEvent records a flagged mismatch between the reward a client claimed
// and the reward the server computed. Purely observational; downstream abuse
// scoring reads these rows.
type SecurityEvent struct {
	Base

	UserID  string `gorm:"index"`
	QuestID string `gorm:"index"`

	Score          int64
	ClaimedAmount  int64
	ComputedAmount int64
	Reason         string
}

package entity

// Balance is the per-user token ledger target. The row doubles as the
// serialization anchor for the completion authority: locking it serializes
// concurrent completion attempts of the same user.
type Balance struct {
	Base

	UserID string `gorm:"uniqueIndex"`
	User   User   `gorm:"foreignKey:UserID"`

	ZoTokens   int64
	Reputation int64
}

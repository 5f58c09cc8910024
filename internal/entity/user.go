package entity

import "database/sql"

type User struct {
	Base

	Name          string `gorm:"uniqueIndex"`
	WalletAddress sql.NullString
}

package entity

import (
	"context"

	"github.com/zoquest/backend/pkg/xcontext"
)

type Migration struct {
	Version string `gorm:"primarykey"`
}

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Quest{},
		&QuestCompletion{},
		&Balance{},
		&SecurityEvent{},
		&Migration{},
	)
}

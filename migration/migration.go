package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type migrateFunc func(context.Context) error

// The index in this slice is the migration version. Append only.
var migrations = []migrateFunc{
	migrate0000,
	migrate0001,
}

// Migrate applies all migrations newer than the version recorded in the
// migrations table.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	current := -1
	latest := entity.Migration{}
	err := xcontext.DB(ctx).Order("version desc").First(&latest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err == nil {
		if _, scanErr := fmt.Sscanf(latest.Version, "%04d", &current); scanErr != nil {
			return scanErr
		}
	}

	for version := current + 1; version < len(migrations); version++ {
		if err := migrations[version](ctx); err != nil {
			return err
		}

		record := entity.Migration{Version: fmt.Sprintf("%04d", version)}
		if err := xcontext.DB(ctx).Create(&record).Error; err != nil {
			return err
		}

		xcontext.Logger(ctx).Infof("Applied migration %04d", version)
	}

	return nil
}

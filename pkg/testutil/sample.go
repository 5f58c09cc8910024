package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/zoquest/backend/internal/entity"
	"github.com/zoquest/backend/internal/repository"
)

// SampleUser creates a new user in database with randomized fields. Non-zero
// fields of init overwrite the sample.
func SampleUser(ctx context.Context, init *entity.User) (entity.User, error) {
	userRepo := repository.NewUserRepository()

	sample := &entity.User{
		Base: entity.Base{ID: uuid.NewString()},
		Name: uuid.NewString(),
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := userRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}
	return *sample, nil
}

// SampleQuest creates a new active fixed-reward quest in database. Non-zero
// fields of init overwrite the sample.
func SampleQuest(ctx context.Context, init *entity.Quest) (entity.Quest, error) {
	questRepo := repository.NewQuestRepository()

	sample := &entity.Quest{
		Base:          entity.Base{ID: uuid.NewString()},
		Slug:          uuid.NewString(),
		Title:         "Sample Quest",
		Status:        entity.QuestActive,
		CooldownHours: 0,
		RewardType:    entity.RewardFixed,
		RewardData:    entity.Map{"amount": float64(10)},
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := questRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}
	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !reflect.DeepEqual(overwriteField.Interface(), reflect.Zero(overwriteField.Type()).Interface()) {
			originValue.Field(i).Set(overwriteField)
		}
	}
}

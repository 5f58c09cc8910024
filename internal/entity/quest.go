package entity

import (
	"github.com/zoquest/backend/pkg/enum"
)

type QuestStatusType string

var (
	QuestDraft    = enum.New(QuestStatusType("draft"))
	QuestActive   = enum.New(QuestStatusType("active"))
	QuestArchived = enum.New(QuestStatusType("archived"))
)

type RewardRuleType string

var (
	RewardFixed     = enum.New(RewardRuleType("fixed"))
	RewardProximity = enum.New(RewardRuleType("proximity"))
)

// Quest is the catalog definition of a quest. This service only reads quests;
// they are created and edited by external tooling.
type Quest struct {
	Base

	Slug        string `gorm:"uniqueIndex"`
	Title       string
	Description string
	Status      QuestStatusType

	// CooldownHours is the minimum number of hours between two accepted
	// completions of this quest by the same user. Zero means no cooldown.
	CooldownHours int

	RewardType RewardRuleType
	RewardData Map
}

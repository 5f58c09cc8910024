package migration

import (
	"context"

	"github.com/zoquest/backend/pkg/xcontext"
)

// migrate0001 backfills a balance row for users onboarded before the balance
// ledger existed, so the completion authority always finds its lock anchor.
func migrate0001(ctx context.Context) error {
	return xcontext.DB(ctx).Exec(`
		INSERT INTO balances (id, user_id, zo_tokens, reputation, created_at, updated_at)
		SELECT users.id, users.id, 0, 0, users.created_at, users.created_at
		FROM users
		LEFT JOIN balances ON balances.user_id = users.id
		WHERE balances.id IS NULL
	`).Error
}

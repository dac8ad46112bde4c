package token

import (
	"context"

	"lexsync/internal/registry/models"
)

// Store persists the single current access token. At most one token is
// current at any time; Replace removes all predecessors together with
// inserting the new one.
type Store interface {
	// Current returns the stored token, or sentinel.ErrNotFound when none
	// has been stored yet. Expiry is the caller's concern.
	Current(ctx context.Context) (models.AccessToken, error)

	// Replace deletes any previously stored tokens and stores exactly one.
	Replace(ctx context.Context, tok models.AccessToken) error
}

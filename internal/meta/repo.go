package meta

import "context"

// TokenRepo persists OAuth tokens.
type TokenRepo interface {
	Save(ctx context.Context, token Token) error
	Get(ctx context.Context, leadID, provider string) (Token, error)
}

package meta

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements TokenRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Save replaces the stored token for a lead and provider. Delete-then-insert
// in one transaction keeps at most one live row per pair.
func (r *PGRepo) Save(ctx context.Context, token Token) error {
	raw, err := json.Marshal(orEmptyMap(token.Raw))
	if err != nil {
		return fmt.Errorf("marshal raw token: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM oauth_tokens WHERE lead_id = $1 AND provider = $2`,
		token.LeadID, token.Provider,
	); err != nil {
		return err
	}

	var expiresAt sql.NullTime
	if token.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *token.ExpiresAt, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO oauth_tokens (
    lead_id,
    provider,
    access_token,
    token_type,
    expires_at,
    raw,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		token.LeadID,
		token.Provider,
		token.AccessToken,
		token.TokenType,
		expiresAt,
		raw,
		token.CreatedAt,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Get returns the stored token for a lead and provider.
func (r *PGRepo) Get(ctx context.Context, leadID, provider string) (Token, error) {
	const query = `
SELECT lead_id, provider, access_token, token_type, expires_at, raw, created_at
FROM oauth_tokens
WHERE lead_id = $1 AND provider = $2
ORDER BY id DESC
LIMIT 1`

	var token Token
	var expiresAt sql.NullTime
	var raw []byte
	err := r.DB.QueryRowContext(ctx, query, leadID, provider).Scan(
		&token.LeadID,
		&token.Provider,
		&token.AccessToken,
		&token.TokenType,
		&expiresAt,
		&raw,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Token{}, ErrNotFound
		}
		return Token{}, err
	}
	if expiresAt.Valid {
		token.ExpiresAt = &expiresAt.Time
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &token.Raw); err != nil {
			return Token{}, fmt.Errorf("unmarshal raw token: %w", err)
		}
	}
	return token, nil
}

func orEmptyMap(values map[string]any) map[string]any {
	if values == nil {
		return map[string]any{}
	}
	return values
}

var _ TokenRepo = (*PGRepo)(nil)

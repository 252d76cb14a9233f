package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domsession "example.com/storefront/app/internal/domain/session"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS storefront_sessions (
    id                    TEXT PRIMARY KEY,
    credential            TEXT NOT NULL,
    user_id               TEXT NOT NULL DEFAULT '',
    user_name             TEXT NOT NULL DEFAULT '',
    user_email            TEXT NOT NULL DEFAULT '',
    user_role             TEXT NOT NULL DEFAULT '',
    credential_expires_at TIMESTAMPTZ NULL,
    expires_at            TIMESTAMPTZ NULL
);
CREATE INDEX IF NOT EXISTS idx_storefront_sessions_expires_at ON storefront_sessions (expires_at)`

type SessionRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool, now: time.Now}
}

func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, sessionSchema)
	return err
}

func (r *SessionRepository) Save(ctx context.Context, rec domsession.Record, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := r.now().Add(ttl)
		expiresAt = &t
	}
	var credentialExpiresAt *time.Time
	if !rec.ExpiresAt.IsZero() {
		credentialExpiresAt = &rec.ExpiresAt
	}
	_, err := r.pool.Exec(ctx, `
        INSERT INTO storefront_sessions
            (id, credential, user_id, user_name, user_email, user_role, credential_expires_at, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (id) DO UPDATE SET
            credential = EXCLUDED.credential,
            user_id = EXCLUDED.user_id,
            user_name = EXCLUDED.user_name,
            user_email = EXCLUDED.user_email,
            user_role = EXCLUDED.user_role,
            credential_expires_at = EXCLUDED.credential_expires_at,
            expires_at = EXCLUDED.expires_at
    `, rec.StorefrontID, rec.Credential, rec.User.ID, rec.User.Name, rec.User.Email, rec.User.Role,
		credentialExpiresAt, expiresAt)
	return err
}

func (r *SessionRepository) Load(ctx context.Context, storefrontID string) (*domsession.Record, error) {
	rec := domsession.Record{StorefrontID: storefrontID}
	var credentialExpiresAt *time.Time
	err := r.pool.QueryRow(ctx, `
        SELECT credential, user_id, user_name, user_email, user_role, credential_expires_at
        FROM storefront_sessions
        WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)
    `, storefrontID, r.now()).Scan(
		&rec.Credential, &rec.User.ID, &rec.User.Name, &rec.User.Email, &rec.User.Role, &credentialExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domsession.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if credentialExpiresAt != nil {
		rec.ExpiresAt = *credentialExpiresAt
	}
	return &rec, nil
}

func (r *SessionRepository) Delete(ctx context.Context, storefrontID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM storefront_sessions WHERE id = $1`, storefrontID)
	return err
}

func (r *SessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM storefront_sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`, r.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

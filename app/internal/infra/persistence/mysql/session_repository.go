package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domsession "example.com/storefront/app/internal/domain/session"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS storefront_sessions (
    id                    VARCHAR(64)  NOT NULL PRIMARY KEY,
    credential            TEXT         NOT NULL,
    user_id               VARCHAR(64)  NOT NULL DEFAULT '',
    user_name             VARCHAR(255) NOT NULL DEFAULT '',
    user_email            VARCHAR(255) NOT NULL DEFAULT '',
    user_role             VARCHAR(32)  NOT NULL DEFAULT '',
    credential_expires_at DATETIME(6)  NULL,
    expires_at            DATETIME(6)  NULL,
    INDEX idx_storefront_sessions_expires_at (expires_at)
)`

type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, sessionSchema)
	return err
}

func (r *SessionRepository) Save(ctx context.Context, rec domsession.Record, ttl time.Duration) error {
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: r.now().UTC().Add(ttl), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO storefront_sessions
            (id, credential, user_id, user_name, user_email, user_role, credential_expires_at, expires_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE
            credential = VALUES(credential),
            user_id = VALUES(user_id),
            user_name = VALUES(user_name),
            user_email = VALUES(user_email),
            user_role = VALUES(user_role),
            credential_expires_at = VALUES(credential_expires_at),
            expires_at = VALUES(expires_at)
    `, rec.StorefrontID, rec.Credential, rec.User.ID, rec.User.Name, rec.User.Email, rec.User.Role,
		nullTime(rec.ExpiresAt), expiresAt)
	return err
}

func (r *SessionRepository) Load(ctx context.Context, storefrontID string) (*domsession.Record, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT credential, user_id, user_name, user_email, user_role, credential_expires_at
        FROM storefront_sessions
        WHERE id = ? AND (expires_at IS NULL OR expires_at > ?)
    `, storefrontID, r.now().UTC())

	rec := domsession.Record{StorefrontID: storefrontID}
	var credentialExpiresAt sql.NullTime
	err := row.Scan(&rec.Credential, &rec.User.ID, &rec.User.Name, &rec.User.Email, &rec.User.Role, &credentialExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domsession.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if credentialExpiresAt.Valid {
		rec.ExpiresAt = credentialExpiresAt.Time
	}
	return &rec, nil
}

func (r *SessionRepository) Delete(ctx context.Context, storefrontID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM storefront_sessions WHERE id = ?`, storefrontID)
	return err
}

// PurgeExpired removes rows past their TTL.
func (r *SessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM storefront_sessions WHERE expires_at IS NOT NULL AND expires_at <= ?`, r.now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

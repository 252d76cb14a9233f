package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domsession "example.com/storefront/app/internal/domain/session"
)

func TestSessionRepository_SaveLoadDelete(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()
	rec := domsession.Record{
		StorefrontID: "sf-1",
		Credential:   "cred",
		User:         domsession.User{ID: "u1", Name: "Mona"},
	}

	require.NoError(t, repo.Save(ctx, rec, time.Hour))

	got, err := repo.Load(ctx, "sf-1")
	require.NoError(t, err)
	require.Equal(t, rec, *got)

	require.NoError(t, repo.Delete(ctx, "sf-1"))
	_, err = repo.Load(ctx, "sf-1")
	require.ErrorIs(t, err, domsession.ErrSessionNotFound)
}

func TestSessionRepository_Expiry(t *testing.T) {
	repo := NewSessionRepository()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domsession.Record{StorefrontID: "sf-1", Credential: "cred"}, time.Minute))

	now = now.Add(59 * time.Second)
	_, err := repo.Load(ctx, "sf-1")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = repo.Load(ctx, "sf-1")
	require.ErrorIs(t, err, domsession.ErrSessionNotFound)
}

func TestSessionRepository_LoadUnknown(t *testing.T) {
	_, err := NewSessionRepository().Load(context.Background(), "nope")
	require.ErrorIs(t, err, domsession.ErrSessionNotFound)
}

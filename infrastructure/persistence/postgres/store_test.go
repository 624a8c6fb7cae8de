package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
)

// openTestStore connects to APPBUILDER_TEST_POSTGRES_DSN, skipping when unset
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("APPBUILDER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("APPBUILDER_TEST_POSTGRES_DSN not set")
	}
	s, err := Open(context.Background(), dsn, 2, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestOpen_InvalidDSN(t *testing.T) {
	_, err := Open(context.Background(), "postgres://%zz", 1, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid postgres dsn")
}

func TestStore_Documents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	projectID := "test-" + uuid.NewString()

	snap := aggregates.EmptySnapshot(projectID)
	snap.Version = 1
	require.NoError(t, s.Save(ctx, projectID, snap))
	snap.Version = 2
	require.NoError(t, s.Save(ctx, projectID, snap))

	err := s.Save(ctx, projectID, snap)
	assert.Equal(t, pkgerrors.CodeStaleWrite, pkgerrors.GetAppError(err).Code)

	loaded, err := s.Load(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Version)

	_, err = s.Load(ctx, "missing-"+uuid.NewString())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_Projects(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	p, err := entities.NewProjectDescriptor("test-"+uuid.NewString(), "Desk", "", valueobjects.PlatformDesktop, valueobjects.LanguageKotlin, created)
	require.NoError(t, err)

	require.NoError(t, s.Projects().Save(ctx, p))
	got, err := s.Projects().Get(ctx, p.ID)

	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
}

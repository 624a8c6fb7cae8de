package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func snapshotAt(v int) aggregates.Snapshot {
	s := aggregates.EmptySnapshot("p1")
	s.Version = v
	n, _ := entities.NewLogicNode("n1", entities.NodeState, valueobjects.Position{X: 5, Y: 5}, nil)
	s.Nodes = append(s.Nodes, n)
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "p1", snapshotAt(1)))
	require.NoError(t, s.Save(ctx, "p1", snapshotAt(4)))
	loaded, err := s.Load(ctx, "p1")

	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Version)
	require.Len(t, loaded.Nodes, 1)
	assert.Equal(t, "n1", loaded.Nodes[0].ID)
}

func TestStore_StaleWrite(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "p1", snapshotAt(3)))

	err := s.Save(ctx, "p1", snapshotAt(3))

	require.Error(t, err)
	appErr := pkgerrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeStaleWrite, appErr.Code)
	assert.Equal(t, 3, appErr.Details["stored_version"])
}

func TestStore_LoadMissing(t *testing.T) {
	s := openMemory(t)

	_, err := s.Load(context.Background(), "nobody")

	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_Projects(t *testing.T) {
	s := openMemory(t)
	projects := s.Projects()
	ctx := context.Background()
	created := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	p, err := entities.NewProjectDescriptor("notes", "Notes", "", valueobjects.PlatformMobile, valueobjects.LanguageSwift, created)
	require.NoError(t, err)

	require.NoError(t, projects.Save(ctx, p))
	p.Name = "Notes 2"
	p.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, projects.Save(ctx, p))
	got, err := projects.Get(ctx, "notes")

	require.NoError(t, err)
	assert.Equal(t, p, *got)

	_, err = projects.Get(ctx, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestOpen_FileReopensWithoutRemigrating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "editor.db")
	ctx := context.Background()

	first, err := Open(ctx, path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "p1", snapshotAt(2)))
	require.NoError(t, first.Close())

	second, err := Open(ctx, path, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()
	loaded, err := second.Load(ctx, "p1")

	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Version)
}

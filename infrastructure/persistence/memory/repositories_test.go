package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	"appbuilder/domain/core/valueobjects"
	pkgerrors "appbuilder/pkg/errors"
)

func TestDocumentRepository_SaveLoad(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := context.Background()
	snap := aggregates.EmptySnapshot("p1")
	snap.Version = 1
	el, err := entities.NewDesignElement("c1", entities.ElementCard, "", valueobjects.Position{})
	require.NoError(t, err)
	snap.Elements = append(snap.Elements, el)

	require.NoError(t, repo.Save(ctx, "p1", snap))
	snap.Elements[0].Name = "mutated after save"
	loaded, err := repo.Load(ctx, "p1")

	require.NoError(t, err)
	assert.Equal(t, "Card", loaded.Elements[0].Name)
	assert.Equal(t, 1, repo.Saves())

	err = repo.Save(ctx, "p1", snap)
	assert.True(t, pkgerrors.IsConflict(err))
	assert.Equal(t, 1, repo.Saves())

	_, err = repo.Load(ctx, "p2")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestDocumentRepository_ConcurrentSaves(t *testing.T) {
	repo := NewDocumentRepository()
	ctx := context.Background()
	var wg sync.WaitGroup

	for v := 1; v <= 20; v++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			snap := aggregates.EmptySnapshot("p1")
			snap.Version = v
			_ = repo.Save(ctx, "p1", snap)
		}(v)
	}
	wg.Wait()

	loaded, err := repo.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 20, loaded.Version)
}

func TestProjectRepository(t *testing.T) {
	repo := NewProjectRepository()
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, id := range []string{"zeta", "alpha"} {
		p, err := entities.NewProjectDescriptor(id, id, "", valueobjects.PlatformWeb, valueobjects.LanguageTypeScript, now)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p))
	}

	got, err := repo.Get(ctx, "alpha")

	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)
	assert.Equal(t, []string{"alpha", "zeta"}, repo.IDs())
	_, err = repo.Get(ctx, "beta")
	assert.True(t, pkgerrors.IsNotFound(err))
}

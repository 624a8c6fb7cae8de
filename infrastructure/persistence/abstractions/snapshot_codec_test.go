package abstractions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appbuilder/domain/core/aggregates"
	"appbuilder/domain/core/entities"
	pkgerrors "appbuilder/pkg/errors"
)

func TestEncodeDecodeSnapshot(t *testing.T) {
	s := aggregates.EmptySnapshot("p1")
	s.Version = 9
	s.Edges = append(s.Edges, entities.LogicEdge{ID: "e1", Source: "a", Target: "b"})

	data, err := EncodeSnapshot(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format":1`)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, 9, decoded.Version)
	assert.Equal(t, "e1", decoded.Edges[0].ID)
}

func TestDecodeSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"garbage", "not json", "failed to decode snapshot"},
		{"newer format", `{"format": 2, "snapshot": {}}`, "newer than supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(tt.data))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckAdvance(t *testing.T) {
	tests := []struct {
		name      string
		stored    int
		found     bool
		attempted int
		wantErr   bool
	}{
		{"first save", 0, false, 1, false},
		{"first save at zero", 0, false, 0, false},
		{"advances", 3, true, 4, false},
		{"same version", 3, true, 3, true},
		{"older version", 3, true, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAdvance("p1", tt.stored, tt.found, tt.attempted)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, pkgerrors.IsConflict(err))
			assert.Equal(t, pkgerrors.CodeStaleWrite, pkgerrors.GetAppError(err).Code)
		})
	}
}

func TestNotFoundErrors(t *testing.T) {
	assert.True(t, pkgerrors.IsNotFound(DocumentNotFound("p1")))
	assert.True(t, pkgerrors.IsNotFound(ProjectNotFound("p1")))
	assert.Equal(t, "p1", pkgerrors.GetAppError(ProjectNotFound("p1")).Details["project_id"])
}

// Package abstractions holds the pieces every document store shares: the
// snapshot wire format and the version rules for conditional writes.
package abstractions

import (
	"encoding/json"
	"fmt"

	"appbuilder/domain/core/aggregates"
	pkgerrors "appbuilder/pkg/errors"
)

// FormatVersion tags stored snapshot bodies so the layout can evolve
const FormatVersion = 1

type envelope struct {
	Format   int                 `json:"format"`
	Snapshot aggregates.Snapshot `json:"snapshot"`
}

// EncodeSnapshot serializes a snapshot for storage
func EncodeSnapshot(s aggregates.Snapshot) ([]byte, error) {
	data, err := json.Marshal(envelope{Format: FormatVersion, Snapshot: s})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a stored snapshot body
func DecodeSnapshot(data []byte) (*aggregates.Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if env.Format > FormatVersion {
		return nil, fmt.Errorf("snapshot format %d is newer than supported %d", env.Format, FormatVersion)
	}
	return &env.Snapshot, nil
}

// StaleWrite is the conflict returned when a save would not advance the
// stored version
func StaleWrite(projectID string, stored, attempted int) error {
	return pkgerrors.NewConflictError(fmt.Sprintf("stale write for project %s: stored version %d, attempted %d", projectID, stored, attempted)).
		WithCode(pkgerrors.CodeStaleWrite).
		WithDetail("stored_version", stored).
		WithDetail("attempted_version", attempted)
}

// CheckAdvance enforces version monotonicity: a save must carry a version
// newer than the stored one. found is false when nothing is stored yet.
func CheckAdvance(projectID string, stored int, found bool, attempted int) error {
	if found && attempted <= stored {
		return StaleWrite(projectID, stored, attempted)
	}
	return nil
}

// DocumentNotFound is returned by Load for a project with no stored document
func DocumentNotFound(projectID string) error {
	return pkgerrors.NewNotFoundError("document").WithDetail("project_id", projectID)
}

// ProjectNotFound is returned by Get for an unknown project
func ProjectNotFound(projectID string) error {
	return pkgerrors.NewNotFoundError("project").WithDetail("project_id", projectID)
}

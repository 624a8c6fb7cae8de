package valueobjects

import "github.com/google/uuid"

// Id prefixes follow the editor's conventions so ids stay readable in logs.
const (
	nodeIDPrefix = "node-"
	edgeIDPrefix = "e-"
	fileIDPrefix = "file-"
)

// NewElementID mints a design element id
func NewElementID() string {
	return uuid.New().String()
}

// NewNodeID mints a logic node id
func NewNodeID() string {
	return nodeIDPrefix + uuid.New().String()
}

// NewEdgeID mints a logic edge id
func NewEdgeID() string {
	return edgeIDPrefix + uuid.New().String()
}

// NewFileID mints a code file id
func NewFileID() string {
	return fileIDPrefix + uuid.New().String()
}

// DerivedNodeID is the deterministic id of the node derived from an element
func DerivedNodeID(elementID string) string {
	return nodeIDPrefix + elementID
}

// FileIDFromDigest builds a deterministic file id from a content digest
func FileIDFromDigest(digest string) string {
	return fileIDPrefix + digest
}

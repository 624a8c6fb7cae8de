// Package cli is the offline command line surface: it runs the pure domain
// passes (generation, reconciliation) over snapshot files without a server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"appbuilder/domain/core/aggregates"
	"appbuilder/infrastructure/persistence/abstractions"
)

var rootCmd = &cobra.Command{
	Use:   "appbuilder",
	Short: "Offline tooling for visual app builder projects",
	Long: `appbuilder works on exported project snapshots.

It generates source files for a design, previews the logic nodes the
reconciler would add or remove, and lists the supported target languages.
Snapshots are read as JSON or YAML, either bare or in the stored envelope.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadSnapshot reads a snapshot file. "-" reads standard input.
func loadSnapshot(cmd *cobra.Command, path string) (aggregates.Snapshot, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return aggregates.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		data, err = yamlToJSON(data)
		if err != nil {
			return aggregates.Snapshot{}, err
		}
	}
	return decodeSnapshot(data)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML snapshot: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML snapshot: %w", err)
	}
	return out, nil
}

// decodeSnapshot accepts either the stored envelope or a bare snapshot and
// validates the result the way a document load does.
func decodeSnapshot(data []byte) (aggregates.Snapshot, error) {
	var probe struct {
		Snapshot json.RawMessage `json:"snapshot"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return aggregates.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	var snap aggregates.Snapshot
	if len(probe.Snapshot) > 0 {
		decoded, err := abstractions.DecodeSnapshot(data)
		if err != nil {
			return aggregates.Snapshot{}, err
		}
		snap = *decoded
	} else if err := json.Unmarshal(data, &snap); err != nil {
		return aggregates.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	doc, err := aggregates.FromSnapshot(snap)
	if err != nil {
		return aggregates.Snapshot{}, err
	}
	return doc.Snapshot(), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

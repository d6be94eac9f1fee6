// Package persisted builds persisted-query manifests from compiled documents.
package persisted

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
	"github.com/vvakame/gqlir/compiler"
	"github.com/vvakame/gqlir/normalize"
)

const manifestVersion = 1

// PersistedOperation is the per-operation file layout, <id>.json, that
// file-backed persisted operation stores read.
type PersistedOperation struct {
	Version int    `json:"version"`
	Body    string `json:"body"`
}

type Entry struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// Body is the operation source followed by its fragments. its SHA-256 is the id.
	Body string `json:"body"`
}

// Manifest maps operation ids to operations.
type Manifest struct {
	Version    int               `json:"version"`
	Operations map[string]*Entry `json:"operations"`

	ids []string
}

func newManifest() *Manifest {
	return &Manifest{
		Version:    manifestVersion,
		Operations: make(map[string]*Entry),
	}
}

// Build registers every operation of cctx in document order.
func Build(cctx *compiler.Context) (*Manifest, error) {
	m := newManifest()
	for _, operation := range cctx.OperationList() {
		id, err := normalize.GenerateOperationID(cctx, operation, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate id of %s: %w", operation.OperationName, err)
		}
		m.add(id.OperationID, &Entry{
			Name: operation.OperationName,
			Type: string(operation.OperationType),
			Body: id.SourceWithFragments,
		})
	}

	return m, nil
}

func (m *Manifest) add(id string, entry *Entry) {
	if _, ok := m.Operations[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.Operations[id] = entry
}

// Merge adds the entries of other. entries of other win on conflicts.
func (m *Manifest) Merge(other *Manifest) {
	for _, id := range other.IDs() {
		m.add(id, other.Operations[id])
	}
}

// IDs returns the operation ids in registration order.
func (m *Manifest) IDs() []string {
	ids := make([]string, len(m.ids))
	copy(ids, m.ids)
	return ids
}

func (m *Manifest) Lookup(id string) (*Entry, bool) {
	entry, ok := m.Operations[id]
	return entry, ok
}

func (m *Manifest) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ReadJSON decodes a manifest written by WriteJSON. ids come back sorted
// since JSON objects carry no order.
func ReadJSON(r io.Reader) (*Manifest, error) {
	m := newManifest()
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("unsupported manifest version: %d", m.Version)
	}

	if m.Operations == nil {
		m.Operations = make(map[string]*Entry)
	}
	for id, entry := range m.Operations {
		if entry == nil {
			return nil, fmt.Errorf("operation %s has no entry", id)
		}
		m.ids = append(m.ids, id)
	}
	sort.Strings(m.ids)

	return m, nil
}

// WriteDir writes one <id>.json file per operation into dir.
func (m *Manifest) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	for _, id := range m.ids {
		b, err := json.Marshal(&PersistedOperation{
			Version: manifestVersion,
			Body:    m.Operations[id].Body,
		})
		if err != nil {
			return err
		}
		filePath := filepath.Join(dir, id+".json")
		if err := os.WriteFile(filePath, b, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filePath, err)
		}
	}

	return nil
}

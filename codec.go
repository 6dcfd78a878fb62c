package depot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the text encoding of a snapshot document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat accepts "json", "yaml" and "yml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("unknown snapshot format %q", s)
}

func EncodeSnapshot(w io.Writer, snap Snapshot, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown snapshot format %s", format)
}

// DecodeSnapshot reads a snapshot document. Values are normalized to their JSON
// forms, so a YAML document decodes to the same Snapshot as its JSON equivalent.
func DecodeSnapshot(r io.Reader, format Format) (Snapshot, error) {
	var snap Snapshot
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&snap); err != nil {
			return Snapshot{}, fmt.Errorf("decode json snapshot: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
			return Snapshot{}, fmt.Errorf("decode yaml snapshot: %w", err)
		}
		normalized, err := normalize(snap)
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode yaml snapshot: %w", err)
		}
		snap = normalized
	default:
		return Snapshot{}, fmt.Errorf("unknown snapshot format %s", format)
	}
	if snap.Resources == nil {
		snap.Resources = make(map[string]any)
	}
	if snap.Entities == nil {
		snap.Entities = make(map[Entity]map[string]any)
	}
	return snap, nil
}

// normalize re-reads snap through JSON, turning YAML ints into float64 and
// map[string]any nesting into the shapes encoding/json produces.
func normalize(snap Snapshot) (Snapshot, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, err
	}
	var out Snapshot
	if err := json.Unmarshal(b, &out); err != nil {
		return Snapshot{}, err
	}
	return out, nil
}

// Checksum hashes the canonical JSON encoding of snap. encoding/json sorts map keys,
// so equal snapshots always hash equally.
func Checksum(snap Snapshot) (uint64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(snap); err != nil {
		return 0, err
	}
	return xxhash.Sum64(buf.Bytes()), nil
}

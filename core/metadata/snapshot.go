package metadata

import (
	"fmt"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// snapshotFileName is written next to the JSON files it summarizes.
const snapshotFileName = ".metadata.cbor"

// snapshot is the serialized form of a fully-loaded metadata directory.
// Types stay as strings here; TypeInfo conversion happens on install.
type snapshot struct {
	Classes []classFile       `cbor:"classes"`
	Fields  map[string]string `cbor:"fields"`
}

// loadSnapshot returns the cached snapshot when it is at least as new as
// every JSON file it covers. Any problem reading or decoding it just means
// a full reload.
func loadSnapshot(path string, newestSource time.Time) (*snapshot, bool) {
	info, err := os.Stat(path)
	if err != nil || info.ModTime().Before(newestSource) {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var snap snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	if snap.Fields == nil {
		snap.Fields = make(map[string]string)
	}
	return &snap, true
}

// writeSnapshot persists the loaded metadata deterministically so unchanged
// directories produce byte-identical snapshots.
func writeSnapshot(path string, snap *snapshot) error {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return fmt.Errorf("creating CBOR encoder: %w", err)
	}
	data, err := encMode.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding metadata snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing metadata snapshot: %w", err)
	}
	return nil
}

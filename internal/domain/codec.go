package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Two persisted cart schemas exist. The primary one stores the full line
// items; the legacy one is a plain productID -> quantity map kept for
// compatibility with older clients. Writers emit both, readers prefer the
// primary and fall back to the legacy map.
const (
	SchemaPrimary = "cartItems"
	SchemaLegacy  = "cart"
)

var ErrMalformedSnapshot = errors.New("malformed cart snapshot")

func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s == nil {
		s = Snapshot{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot failed: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses the primary format. Payloads violating the cart
// invariants (duplicate ids, quantity < 1) are rejected as malformed
// rather than repaired.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	// A JSON null unmarshals into a nil slice without error; no writer
	// ever emits it (EncodeSnapshot coerces nil to []).
	if s == nil {
		return nil, fmt.Errorf("%w: null payload", ErrMalformedSnapshot)
	}
	seen := make(map[string]struct{}, len(s))
	for _, it := range s {
		if it.ID == "" || it.Quantity < 1 {
			return nil, fmt.Errorf("%w: invalid line item %+v", ErrMalformedSnapshot, it)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate line item %s", ErrMalformedSnapshot, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return s, nil
}

// EncodeLegacy renders the compatibility mirror of a snapshot.
func EncodeLegacy(s Snapshot) ([]byte, error) {
	m := make(map[string]int, len(s))
	for _, it := range s {
		m[it.ID] = it.Quantity
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal legacy cart failed: %w", err)
	}
	return data, nil
}

// DecodeLegacy parses the legacy map into a snapshot with zeroed display
// metadata. Callers reconstruct Title and Price from the catalog. Entries
// are ordered by product id so the result is deterministic.
func DecodeLegacy(data []byte) (Snapshot, error) {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: null payload", ErrMalformedSnapshot)
	}
	ids := make([]string, 0, len(m))
	for id, qty := range m {
		if id == "" || qty < 1 {
			return nil, fmt.Errorf("%w: invalid legacy entry %q=%d", ErrMalformedSnapshot, id, qty)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s := make(Snapshot, 0, len(ids))
	for _, id := range ids {
		s = append(s, LineItem{ID: id, Quantity: m[id]})
	}
	return s, nil
}

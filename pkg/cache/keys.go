package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys for pipeline results.
type Keyer interface {
	// LayoutKey identifies the layout of a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// PartitionKey identifies the community partition of a graph.
	PartitionKey(graphHash string, opts PartitionKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a layout.
type LayoutKeyOpts struct {
	Type string `json:"type"`
	Seed uint64 `json:"seed"`
}

// PartitionKeyOpts holds every option that changes a partition.
type PartitionKeyOpts struct {
	Algorithm string `json:"algorithm"`
	Seed      uint64 `json:"seed"`
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// PartitionKey implements [Keyer].
func (DefaultKeyer) PartitionKey(graphHash string, opts PartitionKeyOpts) string {
	return hashKey("partition", graphHash, opts)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey joins kind and the digest of the JSON encoding of parts.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

package canon

import (
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for an algorithm migration.
const (
	DomainTransaction = "timeindex/tx/v1"
	DomainGenesis     = "timeindex/genesis/v1"
)

// Sum256 is plain blake2b-256 with no domain separation.
// Script type hashes use it directly over the script's byte serialization.
func Sum256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// HashWithDomain computes blake2b-256(domain || 0x00 || data).
// The null separator keeps domain and data boundaries unambiguous.
func HashWithDomain(domain string, data []byte) [32]byte {
	buf := make([]byte, 0, len(domain)+1+len(data))
	buf = append(buf, domain...)
	buf = append(buf, 0x00)
	buf = append(buf, data...)
	return blake2b.Sum256(buf)
}

// Digest canonically marshals v and hashes it under domain.
func Digest(domain string, v any) ([32]byte, error) {
	data, err := Marshal(v)
	if err != nil {
		return [32]byte{}, fmt.Errorf("digest %s: %w", domain, err)
	}
	return HashWithDomain(domain, data), nil
}

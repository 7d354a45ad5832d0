package hash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// Sum64 returns the murmur3 hash of data. Used for bloom filter bit locations.
func Sum64(data []byte) uint64 {
	return murmur3.Sum64(data)
}

// TermSha256 returns the hex-encoded sha256 of a normalized term.
func TermSha256(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// FastSum hashes a string with xxhash for cheap bloom lookups.
func FastSum(s string) []byte {
	h := xxhash.Sum64String(s)
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, h)
	return buf
}

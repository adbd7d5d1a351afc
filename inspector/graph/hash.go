package graph

import (
	"github.com/minio/highwayhash"
)

// digestKey has to be exactly 32 bytes long
var digestKey = []byte("buildprune-source-digest-key-32b")

// Digest returns the content digest of a source file
func Digest(data []byte) uint64 {
	return highwayhash.Sum64(data, digestKey)
}

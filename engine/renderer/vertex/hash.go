package vertex

import "github.com/cespare/xxhash/v2"

func calculateDataHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

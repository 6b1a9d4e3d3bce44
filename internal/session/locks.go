package session

import (
	"hash/fnv"
	"sync"
)

const lockShards = 64

// KeyedMutex serializes work per session id with a fixed set of striped
// locks. Distinct ids proceed in parallel (modulo shard collisions);
// requests for the same id are applied in arrival order, closing the
// lost-update window if the gateway ever retries a request.
type KeyedMutex struct {
	shards [lockShards]sync.Mutex
}

// Lock acquires the shard lock for the given id and returns the unlock
// function.
func (k *KeyedMutex) Lock(id string) func() {
	h := fnv.New32a()
	h.Write([]byte(id))
	shard := &k.shards[h.Sum32()%lockShards]
	shard.Lock()
	return shard.Unlock
}

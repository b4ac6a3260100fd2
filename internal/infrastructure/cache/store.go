package cache

import (
	"github.com/johnquangdev/speech-coach/pkg/config"
)

// KeyPrefix namespaces every key this service writes to a shared store
const KeyPrefix = "speech-coach:"

// NewStore returns the shared Redis store when Redis is enabled and an
// in-process store otherwise, along with a func releasing it.
func NewStore(cfg *config.Config) (Store, func() error, error) {
	if !cfg.Redis.Enabled {
		mem := NewMemoryStore(nil)
		return mem, mem.Close, nil
	}

	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewRedisStore(client, KeyPrefix), client.Close, nil
}

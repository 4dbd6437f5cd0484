package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog"

	"github.com/bromptonhealth/dmrecall/tabular"
)

// resultCache keeps processed uploads keyed by a content hash, the rule
// configuration version and the evaluation date. The scope is explicit:
// nothing survives a changed upload, a changed configuration or a new
// day.
type resultCache struct {
	entries *lru.Cache
	log     zerolog.Logger
}

func newResultCache(size int, log zerolog.Logger) (*resultCache, error) {
	c := &resultCache{log: log.With().Str("component", "result_cache").Logger()}
	if size <= 0 {
		return c, nil
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	c.entries = entries
	return c, nil
}

func (c *resultCache) key(content []byte, configVersion string, today tabular.Date) string {
	hasher := sha256.New()
	hasher.Write(content)
	hasher.Write([]byte("|" + configVersion + "|" + today.String()))
	return hex.EncodeToString(hasher.Sum(nil))
}

// get returns a copy of the cached table, so callers can slice and
// annotate without touching the cached entry.
func (c *resultCache) get(key string) (*tabular.Table, bool) {
	if c.entries == nil {
		return nil, false
	}
	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	c.log.Debug().Str("key", key).Msg("Result cache hit")
	return v.(*tabular.Table).Clone(), true
}

func (c *resultCache) put(key string, table *tabular.Table) {
	if c.entries == nil {
		return
	}
	c.entries.Add(key, table.Clone())
}

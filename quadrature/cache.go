package quadrature

import (
	"sync"
	"sync/atomic"

	"github.com/notargets/quadfe/element"
)

type cacheKey struct {
	kind  element.Kind
	order int
}

type cacheEntry struct {
	once sync.Once
	rule *Rule
}

// Cache memoizes rules by (kind, order). Entries are created lazily on first
// request; each is built exactly once even when first requested concurrently, and
// is immutable once published so later reads take no lock. Invalid requests are
// rejected before an entry is created, so the table only ever holds valid rules.
// The zero value is ready to use.
type Cache struct {
	rules  sync.Map // cacheKey -> *cacheEntry
	builds atomic.Int64
}

func NewCache() *Cache { return &Cache{} }

// Default is the process wide cache behind GenerateRule
var Default = NewCache()

// GenerateRule returns the rule for (k, order) from the Default cache
func GenerateRule(k element.Kind, order int) (*Rule, error) {
	return Default.Rule(k, order)
}

func (c *Cache) Rule(k element.Kind, order int) (*Rule, error) {
	key := cacheKey{k, order}
	v, ok := c.rules.Load(key)
	if !ok {
		if err := validate(k, order); err != nil {
			return nil, err
		}
		v, _ = c.rules.LoadOrStore(key, &cacheEntry{})
	}
	// After publication Do is a single atomic load
	e := v.(*cacheEntry)
	e.once.Do(func() {
		e.rule = newRule(k, order)
		c.builds.Add(1)
	})
	return e.rule, nil
}

// Len is the number of (kind, order) entries held
func (c *Cache) Len() (n int) {
	c.rules.Range(func(_, _ any) bool {
		n++
		return true
	})
	return
}

// Builds counts rule constructions, one per distinct (kind, order)
func (c *Cache) Builds() int64 { return c.builds.Load() }

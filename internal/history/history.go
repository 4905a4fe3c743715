// Package history keeps a bounded record of recently generated items per
// level and skill, so prompts can ask the model not to repeat them.
package history

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultCapacity is the number of items kept per bucket.
const DefaultCapacity = 10

// Key identifies one history bucket. Category is only used for vocabulary.
type Key struct {
	Level    string
	Skill    string
	Category string
}

// String renders the bucket key: "A1-Reading" or "A1-Vocabulary-noun".
func (k Key) String() string {
	if k.Category == "" {
		return fmt.Sprintf("%s-%s", k.Level, k.Skill)
	}
	return fmt.Sprintf("%s-%s-%s", k.Level, k.Skill, k.Category)
}

// Cache holds one FIFO bucket per key. Generation commands complete on their
// own goroutines, so access is serialized with a mutex.
type Cache struct {
	mu       sync.Mutex
	capacity int
	buckets  map[string][]string
}

// New creates a cache that keeps up to capacity items per key. A capacity
// below 1 selects DefaultCapacity.
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Cache{capacity: capacity, buckets: make(map[string][]string)}
}

// Record appends item to the bucket for key, evicting the oldest entries
// beyond capacity.
func (c *Cache) Record(key Key, item string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	bucket := append(c.buckets[k], item)
	if over := len(bucket) - c.capacity; over > 0 {
		bucket = append([]string(nil), bucket[over:]...)
	}
	c.buckets[k] = bucket
}

// Items returns a copy of the bucket for key, oldest first.
func (c *Cache) Items(key Key) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.buckets[key.String()]...)
}

// PromptFragment returns the instruction appended to a generation prompt.
// itemNoun names what is being generated ("question", "word"...).
func (c *Cache) PromptFragment(key Key, itemNoun string) string {
	items := c.Items(key)
	if len(items) == 0 {
		return "Please generate a unique item."
	}
	return fmt.Sprintf(
		`To ensure variety, please generate a completely new and different %s from the following examples that have already been shown: "%s".`,
		itemNoun, strings.Join(items, `", "`))
}

// Clear removes every bucket for level and skill, including all category
// buckets beneath them.
func (c *Cache) Clear(level, skill string) {
	c.ClearPrefix(Key{Level: level, Skill: skill}.String())
}

// ClearPrefix removes every bucket whose key starts with prefix.
func (c *Cache) ClearPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.buckets {
		if strings.HasPrefix(k, prefix) {
			delete(c.buckets, k)
		}
	}
}

// Len returns the number of non-empty buckets.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets)
}

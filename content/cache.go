package content

import (
	"sync"
	"time"
)

// Source is what PostCache reads published posts from. *Store satisfies it.
type Source interface {
	ListPosts(tag string) ([]Post, error)
}

// snapshot is one load of the source. It is never modified after
// creation, so readers can use it without holding the lock.
type snapshot struct {
	posts   []Post
	tags    []string
	bySlug  map[string]int
	expires time.Time
}

func newSnapshot(posts []Post, ttl time.Duration) *snapshot {
	if posts == nil {
		posts = []Post{}
	}
	bySlug := make(map[string]int, len(posts))
	for i, p := range posts {
		bySlug[p.Slug] = i
	}
	return &snapshot{
		posts:   posts,
		tags:    collectTags(posts),
		bySlug:  bySlug,
		expires: time.Now().Add(ttl),
	}
}

// PostCache keeps the published posts in memory for a TTL. Invalidate
// drops the snapshot early, e.g. when the content watcher sees an edit.
type PostCache struct {
	src Source
	ttl time.Duration

	mu   sync.RWMutex
	snap *snapshot
}

// NewPostCache creates a PostCache backed by src.
func NewPostCache(src Source, ttl time.Duration) *PostCache {
	return &PostCache{src: src, ttl: ttl}
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}

func (c *PostCache) current() (*snapshot, error) {
	c.mu.RLock()
	s := c.snap
	c.mu.RUnlock()
	if s != nil && time.Now().Before(s.expires) {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another reader may have reloaded while we waited.
	if c.snap != nil && time.Now().Before(c.snap.expires) {
		return c.snap, nil
	}
	posts, err := c.src.ListPosts("")
	if err != nil {
		return nil, err
	}
	c.snap = newSnapshot(posts, c.ttl)
	return c.snap, nil
}

// ListPosts returns published posts, optionally filtered by tag.
func (c *PostCache) ListPosts(tag string) ([]Post, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	return FilterByTag(s.posts, tag), nil
}

// ListTags returns all unique tags from published posts.
func (c *PostCache) ListTags() ([]string, error) {
	s, err := c.current()
	if err != nil {
		return nil, err
	}
	return s.tags, nil
}

// GetPost returns a single published post by slug.
func (c *PostCache) GetPost(slug string) (Post, error) {
	s, err := c.current()
	if err != nil {
		return Post{}, err
	}
	i, ok := s.bySlug[slug]
	if !ok {
		return Post{}, ErrNotFound
	}
	return s.posts[i], nil
}

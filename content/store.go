package content

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Store reads posts from a directory of Markdown files. Every call walks
// the file system again, so PostCache sits in front of it when serving.
type Store struct {
	fsys fs.FS
}

// NewStore returns a Store over fsys. Files ending in .md anywhere under
// the root are posts; the slug comes from the file name.
func NewStore(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// LoadAll parses every post, drafts included.
func (s *Store) LoadAll() ([]Post, error) {
	var posts []Post
	seen := make(map[string]string)
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".md") {
			return nil
		}
		data, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		post, err := Parse(Slugify(strings.TrimSuffix(path.Base(p), ".md")), data)
		if err != nil {
			return err
		}
		if other, ok := seen[post.Slug]; ok {
			return fmt.Errorf("%w: %s and %s share slug %q", ErrInvalidPost, other, p, post.Slug)
		}
		seen[post.Slug] = p
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortPosts(posts)
	return posts, nil
}

// ListPosts returns published posts, newest first, optionally filtered by tag.
func (s *Store) ListPosts(tag string) ([]Post, error) {
	all, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	var published []Post
	for _, p := range all {
		if p.Published {
			published = append(published, p)
		}
	}
	return FilterByTag(published, tag), nil
}

// ListTags returns the sorted unique tags of published posts.
func (s *Store) ListTags() ([]string, error) {
	posts, err := s.ListPosts("")
	if err != nil {
		return nil, err
	}
	return collectTags(posts), nil
}

// GetPost returns a published post by slug.
func (s *Store) GetPost(slug string) (Post, error) {
	posts, err := s.ListPosts("")
	if err != nil {
		return Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// FilterByTag returns the posts carrying tag, compared case-insensitively
// and ignoring surrounding space. A blank tag returns posts unchanged.
func FilterByTag(posts []Post, tag string) []Post {
	normalized := normalizeTag(tag)
	if normalized == "" {
		return posts
	}
	var out []Post
	for _, p := range posts {
		if hasTag(p, normalized) {
			out = append(out, p)
		}
	}
	return out
}

func sortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})
}

func hasTag(p Post, normalized string) bool {
	for _, t := range p.Tags {
		if normalizeTag(t) == normalized {
			return true
		}
	}
	return false
}

func collectTags(posts []Post) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range posts {
		for _, t := range p.Tags {
			n := normalizeTag(t)
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			tags = append(tags, n)
		}
	}
	sort.Strings(tags)
	return tags
}

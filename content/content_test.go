package content

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/charmbracelet/log"
)

const helloPost = `---
title: Hello World
description: First post
date: 2024-01-15
tags: [Go, testing]
---
# Hello

Body text.
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"hello-world.md": {Data: []byte(helloPost)},
		"nested/second.md": {Data: []byte(`---
title: Second
date: 2024-03-01
tags: [go]
---
Second body.
`)},
		"draft.md": {Data: []byte(`---
title: Draft
date: 2024-05-01
published: false
tags: [secret]
---
Not yet.
`)},
		"notes.txt": {Data: []byte("ignored")},
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("hello-world", []byte(helloPost))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p.Slug != "hello-world" {
		t.Errorf("Slug = %q", p.Slug)
	}
	if p.Title != "Hello World" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Description != "First post" {
		t.Errorf("Description = %q", p.Description)
	}
	if p.DateString() != "2024-01-15" {
		t.Errorf("Date = %q", p.DateString())
	}
	if len(p.Tags) != 2 || p.Tags[0] != "Go" || p.Tags[1] != "testing" {
		t.Errorf("Tags = %v", p.Tags)
	}
	if !p.Published {
		t.Errorf("posts should default to published")
	}
	if p.Body != "# Hello\n\nBody text.\n" {
		t.Errorf("Body = %q", p.Body)
	}
}

func TestParseSlugOverride(t *testing.T) {
	p, err := Parse("file-name", []byte("---\ntitle: X\nslug: Custom Slug\n---\nbody"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if p.Slug != "custom-slug" {
		t.Errorf("Slug = %q, want custom-slug", p.Slug)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no frontmatter", "# Just markdown"},
		{"unterminated", "---\ntitle: x\n"},
		{"missing title", "---\ndate: 2024-01-01\n---\nbody"},
		{"bad date", "---\ntitle: x\ndate: 01/02/2024\n---\nbody"},
		{"bad yaml", "---\ntitle: [unclosed\n---\nbody"},
	}
	for _, tt := range tests {
		_, err := Parse("slug", []byte(tt.input))
		if !errors.Is(err, ErrInvalidPost) {
			t.Errorf("%s: err = %v, want ErrInvalidPost", tt.name, err)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"  Go 1.22: What's New?  ", "go-1-22-what-s-new"},
		{"---", ""},
		{"already-slugged", "already-slugged"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestStoreListPosts(t *testing.T) {
	s := NewStore(testFS())
	posts, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d, want 2 (draft excluded)", len(posts))
	}
	if posts[0].Slug != "second" || posts[1].Slug != "hello-world" {
		t.Errorf("order = %s, %s; want newest first", posts[0].Slug, posts[1].Slug)
	}

	tagged, err := s.ListPosts("GO")
	if err != nil {
		t.Fatalf("ListPosts(tag) failed: %v", err)
	}
	if len(tagged) != 2 {
		t.Errorf("tag filter should be case-insensitive, got %d posts", len(tagged))
	}

	none, err := s.ListPosts("secret")
	if err != nil {
		t.Fatalf("ListPosts(secret) failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("draft tags should not match, got %d posts", len(none))
	}
}

func TestStoreLoadAllIncludesDrafts(t *testing.T) {
	all, err := NewStore(testFS()).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
}

func TestStoreListTags(t *testing.T) {
	tags, err := NewStore(testFS()).ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []string{"go", "testing"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestStoreGetPost(t *testing.T) {
	s := NewStore(testFS())
	p, err := s.GetPost("hello-world")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if p.Title != "Hello World" {
		t.Errorf("Title = %q", p.Title)
	}
	if _, err := s.GetPost("draft"); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft should be hidden, err = %v", err)
	}
	if _, err := s.GetPost("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing post err = %v", err)
	}
}

func TestStoreDuplicateSlug(t *testing.T) {
	fsys := fstest.MapFS{
		"a/post.md": {Data: []byte("---\ntitle: A\n---\n")},
		"b/post.md": {Data: []byte("---\ntitle: B\n---\n")},
	}
	if _, err := NewStore(fsys).LoadAll(); !errors.Is(err, ErrInvalidPost) {
		t.Fatalf("expected duplicate slug error, got %v", err)
	}
}

type countingSource struct {
	calls atomic.Int32
	posts []Post
}

func (s *countingSource) ListPosts(string) ([]Post, error) {
	s.calls.Add(1)
	return s.posts, nil
}

func TestPostCacheServesFromMemory(t *testing.T) {
	src := &countingSource{posts: []Post{
		{Slug: "a", Title: "A", Tags: []string{"Go"}, Published: true},
		{Slug: "b", Title: "B", Tags: []string{"rust"}, Published: true},
	}}
	c := NewPostCache(src, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := c.ListPosts(""); err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}
	}
	if n := src.calls.Load(); n != 1 {
		t.Fatalf("source called %d times, want 1", n)
	}

	tagged, err := c.ListPosts("go")
	if err != nil {
		t.Fatalf("ListPosts(go) failed: %v", err)
	}
	if len(tagged) != 1 || tagged[0].Slug != "a" {
		t.Errorf("tagged = %+v", tagged)
	}

	if _, err := c.GetPost("b"); err != nil {
		t.Errorf("GetPost(b) failed: %v", err)
	}
	if _, err := c.GetPost("zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPost(zzz) err = %v", err)
	}

	c.Invalidate()
	if _, err := c.ListTags(); err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if n := src.calls.Load(); n != 2 {
		t.Fatalf("source called %d times after invalidate, want 2", n)
	}
}

func TestBlankTagMatchesStoreAndCache(t *testing.T) {
	fsys := fstest.MapFS{
		"one.md": {Data: []byte("---\ntitle: One\ndate: 2024-01-01\ntags: [Go]\n---\n")},
		"two.md": {Data: []byte("---\ntitle: Two\ndate: 2024-02-01\ntags: [rust]\n---\n")},
	}
	store := NewStore(fsys)
	cache := NewPostCache(store, time.Minute)

	for _, tag := range []string{"", " ", "\t", " go ", "GO"} {
		fromStore, err := store.ListPosts(tag)
		if err != nil {
			t.Fatalf("store.ListPosts(%q): %v", tag, err)
		}
		fromCache, err := cache.ListPosts(tag)
		if err != nil {
			t.Fatalf("cache.ListPosts(%q): %v", tag, err)
		}
		if len(fromStore) != len(fromCache) {
			t.Errorf("tag %q: store returned %d posts, cache %d", tag, len(fromStore), len(fromCache))
		}
	}

	all, err := cache.ListPosts("  ")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("blank tag should list every post, got %d", len(all))
	}
}

func TestFilterByTag(t *testing.T) {
	posts := []Post{
		{Slug: "a", Tags: []string{"Go", "web"}},
		{Slug: "b", Tags: []string{"rust"}},
	}
	tests := []struct {
		tag  string
		want []string
	}{
		{"", []string{"a", "b"}},
		{"   ", []string{"a", "b"}},
		{"go", []string{"a"}},
		{" WEB ", []string{"a"}},
		{"python", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, p := range FilterByTag(posts, tt.tag) {
			got = append(got, p.Slug)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("FilterByTag(%q) = %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestPostCacheTags(t *testing.T) {
	src := &countingSource{posts: []Post{
		{Slug: "a", Tags: []string{"Go", "web"}, Published: true},
		{Slug: "b", Tags: []string{"go"}, Published: true},
	}}
	c := NewPostCache(src, time.Minute)
	tags, err := c.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if strings.Join(tags, ",") != "go,web" {
		t.Errorf("tags = %v", tags)
	}
	empty := NewPostCache(&countingSource{}, time.Minute)
	posts, err := empty.ListPosts("")
	if err != nil || posts == nil {
		t.Errorf("empty source: posts = %v, err = %v; want empty non-nil slice", posts, err)
	}
}

func TestPostCacheExpires(t *testing.T) {
	src := &countingSource{}
	c := NewPostCache(src, 20*time.Millisecond)
	if _, err := c.ListPosts(""); err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := c.ListPosts(""); err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if n := src.calls.Load(); n != 2 {
		t.Fatalf("source called %d times, want 2 after ttl", n)
	}
}

func TestWatchReportsMarkdownChanges(t *testing.T) {
	dir := t.TempDir()
	logger := log.New(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, logger, func(p string) { changed <- p })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "post.md")
	if err := os.WriteFile(target, []byte(helloPost), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != target {
			t.Errorf("changed path = %q, want %q", got, target)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

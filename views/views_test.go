package views

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"

	"github.com/jaehafe/blog/content"
	"github.com/jaehafe/blog/site"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func testPost() content.Post {
	return content.Post{
		Slug:        "hello-world",
		Title:       "Hello <World>",
		Description: "First post",
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Tags:        []string{"go", "web"},
		Published:   true,
		Body:        "Some **bold** text.",
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://example.com", nil, "https://example.com/"},
		{"https://example.com", []string{"blog", "post"}, "https://example.com/blog/post/"},
		{"https://example.com/sub", []string{"blog"}, "https://example.com/sub/blog/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.expected {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.expected)
		}
	}
}

func TestPageTitle(t *testing.T) {
	cfg := site.Get()
	if got := PageTitle(cfg, ""); got != "Jaeha" {
		t.Errorf("PageTitle empty = %q", got)
	}
	if got := PageTitle(cfg, "Post"); got != "Post | Jaeha" {
		t.Errorf("PageTitle = %q", got)
	}
}

func TestWebsiteJsonLD(t *testing.T) {
	var data map[string]any
	if err := json.Unmarshal([]byte(WebsiteJsonLD(site.Get())), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data["name"] != "Jaeha" {
		t.Errorf("name = %v", data["name"])
	}
	if data["url"] != "https://example.com/" {
		t.Errorf("url = %v", data["url"])
	}
	author, ok := data["author"].(map[string]any)
	if !ok {
		t.Fatalf("author missing: %v", data)
	}
	sameAs, ok := author["sameAs"].([]any)
	if !ok {
		t.Fatalf("sameAs missing: %v", author)
	}
	// github and personalSite share a URL, so it appears once.
	if len(sameAs) != 2 {
		t.Errorf("sameAs = %v, want 2 unique links", sameAs)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	var data map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(site.Get(), testPost())), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data["url"] != "https://example.com/blog/hello-world/" {
		t.Errorf("url = %v", data["url"])
	}
	if data["datePublished"] != "2024-01-15" {
		t.Errorf("datePublished = %v", data["datePublished"])
	}
	if data["keywords"] != "go, web" {
		t.Errorf("keywords = %v", data["keywords"])
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	current := testPost()
	posts := []content.Post{
		current,
		{Slug: "a", Tags: []string{"GO"}},
		{Slug: "b", Tags: []string{"rust"}},
	}
	related := FilterRelatedPosts(current, posts)
	if len(related) != 1 || related[0].Slug != "a" {
		t.Fatalf("related = %+v", related)
	}
}

func TestLayoutHeadUsesSiteRecord(t *testing.T) {
	got := renderString(t, Home(site.Get(), nil, "", nil))

	wants := []string{
		"<title>Jaeha</title>",
		`<meta name="description" content="Nextjs 14 blog using velite, tailwind and shadcn">`,
		`<meta name="author" content="Jaeha">`,
		`<link rel="canonical" href="https://example.com/">`,
		`<meta property="og:site_name" content="Jaeha">`,
		`<meta name="twitter:creator" content="@miniapp223">`,
		`application/ld+json`,
		"No posts yet.",
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("output missing %q", w)
		}
	}
}

func TestFooterListsLinksInOrder(t *testing.T) {
	got := renderString(t, Footer(site.Get()))
	tw := strings.Index(got, `data-link="twitter"`)
	gh := strings.Index(got, `data-link="github"`)
	ps := strings.Index(got, `data-link="personalSite"`)
	if tw < 0 || gh < 0 || ps < 0 {
		t.Fatalf("footer missing links: %s", got)
	}
	if !(tw < gh && gh < ps) {
		t.Errorf("footer links out of order: %s", got)
	}
	if !strings.Contains(got, `href="https://github.com/jaehafe"`) {
		t.Errorf("footer missing github url: %s", got)
	}
	if !strings.Contains(got, "Jaeha") {
		t.Errorf("footer missing author: %s", got)
	}
}

func TestPostPageEscapesAndRendersMarkdown(t *testing.T) {
	post := testPost()
	other := content.Post{Slug: "other", Title: "Other", Tags: []string{"web"}}
	got := renderString(t, Post(site.Get(), post, []content.Post{post, other}))

	if !strings.Contains(got, "<title>Hello &lt;World&gt; | Jaeha</title>") {
		t.Errorf("title not escaped: %s", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("markdown body not rendered")
	}
	if !strings.Contains(got, `<meta property="og:type" content="article">`) {
		t.Errorf("og:type should be article")
	}
	if !strings.Contains(got, `href="/blog/other/"`) {
		t.Errorf("related post link missing")
	}
	if !strings.Contains(got, `"@type":"BlogPosting"`) {
		t.Errorf("BlogPosting JSON-LD missing")
	}
}

func TestPostListTags(t *testing.T) {
	posts := []content.Post{testPost()}
	got := renderString(t, PostList(posts, "go", []string{"go", "c++"}))
	if !strings.Contains(got, `class="tag tag-active" href="/?tag=go"`) {
		t.Errorf("active tag not marked: %s", got)
	}
	if !strings.Contains(got, `href="/?tag=c%2B%2B"`) {
		t.Errorf("tag not query-escaped: %s", got)
	}
	if !strings.Contains(got, `<time datetime="2024-01-15">`) {
		t.Errorf("date missing: %s", got)
	}
}

func TestErrorPages(t *testing.T) {
	if got := renderString(t, NotFound(site.Get())); !strings.Contains(got, "Page not found") {
		t.Errorf("NotFound output = %s", got)
	}
	if got := renderString(t, ServerError(site.Get())); !strings.Contains(got, "Something went wrong") {
		t.Errorf("ServerError output = %s", got)
	}
}

func TestAttributesAreEscaped(t *testing.T) {
	post := content.Post{
		Slug:        "quotes",
		Title:       `Say "hi" <now>`,
		Description: `a "quoted" description`,
		Date:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Tags:        []string{`x"y`},
		Published:   true,
	}
	got := renderString(t, Post(site.Get(), post, nil))
	if !strings.Contains(got, `<meta property="og:title" content="Say &#34;hi&#34; &lt;now&gt; | Jaeha">`) {
		t.Errorf("og:title not escaped: %s", got)
	}
	if !strings.Contains(got, `<meta name="description" content="a &#34;quoted&#34; description">`) {
		t.Errorf("description not escaped: %s", got)
	}

	list := renderString(t, PostList([]content.Post{post}, "", post.Tags))
	if !strings.Contains(list, `href="/?tag=x%22y"`) {
		t.Errorf("tag href not escaped: %s", list)
	}
	if !strings.Contains(list, `>x&#34;y</a>`) {
		t.Errorf("tag text not escaped: %s", list)
	}
}

func TestHomeTagTitle(t *testing.T) {
	got := renderString(t, Home(site.Get(), nil, "go", []string{"go"}))
	if !strings.Contains(got, "<title>#go | Jaeha</title>") {
		t.Errorf("tag title missing: %s", got)
	}
}

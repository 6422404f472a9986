package blog

import "testing"

func TestRouteMatches(t *testing.T) {
	tests := []struct {
		route, path string
		want        bool
	}{
		{"/about", "/about", true},
		{"/about", "/about/me", false},
		{"/blog", "/blog/hello-world", false},
		{"/api/posts/:slug", "/api/posts/go", true},
		{"/api/posts/:slug", "/api/posts/", false},
		{"/api/posts/:slug", "/api/posts", false},
		{"/public/*", "/public/img/a.png", true},
		{"/public*", "/publications", true},
		{"/files/*", "/other/x", false},
	}
	for _, tt := range tests {
		if got := routeMatches(tt.route, tt.path); got != tt.want {
			t.Errorf("routeMatches(%q, %q) = %v, want %v", tt.route, tt.path, got, tt.want)
		}
	}
}

func TestKeepsPath(t *testing.T) {
	a := setupTestApp(t)
	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/feed.xml", true},
		{"/favicon.ico", true},
		{"/blog", true},
		{"/blog/hello-world", false},
		{"/no/such/page", false},
	}
	for _, tt := range tests {
		if got := a.keepsPath(tt.path); got != tt.want {
			t.Errorf("keepsPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

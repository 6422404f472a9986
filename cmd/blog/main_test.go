package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/jaehafe/blog"
	"github.com/jaehafe/blog/site"
)

func TestPrintSiteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printSite(&buf, "json"); err != nil {
		t.Fatalf("printSite failed: %v", err)
	}
	var got site.Config
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got != site.Get() {
		t.Errorf("round trip = %+v, want %+v", got, site.Get())
	}
	if !strings.Contains(buf.String(), `"personalSite"`) {
		t.Errorf("json should use original keys: %s", buf.String())
	}
}

func TestPrintSiteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := printSite(&buf, "yaml"); err != nil {
		t.Fatalf("printSite failed: %v", err)
	}
	var got site.Config
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if got.Links.GitHub != "https://github.com/jaehafe" {
		t.Errorf("links.github = %q", got.Links.GitHub)
	}
}

func TestPrintSiteUnknownFormat(t *testing.T) {
	if err := printSite(&bytes.Buffer{}, "toml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := blog.ServerConfig{Addr: ":3000", LogLevel: "info", ContentDir: "content/posts"}
	cmd := &cli.Command{
		Name:  "serve",
		Flags: serveFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyFlags(cmd, &cfg)
			return nil
		},
	}
	args := []string{"serve", "--addr", ":8080", "--log-level", "DEBUG", "--cache-ttl", "1m", "--watch"}
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatalf("run: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.PostCacheTTL != time.Minute {
		t.Errorf("PostCacheTTL = %v", cfg.PostCacheTTL)
	}
	if !cfg.WatchContent {
		t.Errorf("WatchContent should be set")
	}
	if cfg.ContentDir != "content/posts" {
		t.Errorf("unset flag overrode ContentDir: %q", cfg.ContentDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("flag config should validate: %v", err)
	}
}

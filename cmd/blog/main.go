package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/jaehafe/blog"
	"github.com/jaehafe/blog/content"
	"github.com/jaehafe/blog/scaffold"
	"github.com/jaehafe/blog/site"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "blog",
		Usage:   "Personal blog server: Markdown posts, RSS, sitemap",
		Version: version,
		Commands: []*cli.Command{
			serveCommand(),
			siteCommand(),
			newCommand(),
			{
				Name:  "version",
				Usage: "Print the blog version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("blog %s\n", version)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server (settings also read from the environment and .env)",
		Flags: serveFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := blog.LoadConfigFromEnv()
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return blog.New(cfg).Start(ctx)
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "addr", Usage: "listen address"},
		&cli.StringFlag{Name: "content", Usage: "Markdown posts directory"},
		&cli.StringFlag{Name: "static", Usage: "static assets directory"},
		&cli.DurationFlag{Name: "cache-ttl", Usage: "post cache TTL"},
		&cli.BoolFlag{Name: "watch", Usage: "reload posts when files change"},
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
	}
}

// applyFlags overrides cfg with flags given on the command line.
func applyFlags(cmd *cli.Command, cfg *blog.ServerConfig) {
	if cmd.IsSet("addr") {
		cfg.Addr = cmd.String("addr")
	}
	if cmd.IsSet("content") {
		cfg.ContentDir = cmd.String("content")
	}
	if cmd.IsSet("static") {
		cfg.StaticDir = cmd.String("static")
	}
	if cmd.IsSet("cache-ttl") {
		cfg.PostCacheTTL = cmd.Duration("cache-ttl")
	}
	if cmd.IsSet("watch") {
		cfg.WatchContent = cmd.Bool("watch")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = strings.ToLower(cmd.String("log-level"))
	}
}

func siteCommand() *cli.Command {
	return &cli.Command{
		Name:  "site",
		Usage: "Print the site metadata record",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "json or yaml"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return printSite(os.Stdout, cmd.String("format"))
		},
	}
}

func printSite(w io.Writer, format string) error {
	cfg := site.Get()
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want json or yaml)", format)
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a starter content directory",
		ArgsUsage: "<dir>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				return fmt.Errorf("usage: blog new <dir>")
			}
			cfg := site.Get()
			created, err := scaffold.Generate(dir, scaffold.Data{
				SiteName: cfg.Name,
				Author:   cfg.Author,
				Date:     time.Now().Format(content.DateLayout),
			})
			if err != nil {
				return err
			}
			for _, p := range created {
				fmt.Printf("  created %s\n", p)
			}
			fmt.Println()
			fmt.Printf("Next: cp %s/.env.example .env && blog serve --content %s/content/posts\n", dir, dir)
			return nil
		},
	}
}

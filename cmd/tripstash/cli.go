package main

import (
	"database/sql"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/avelinek/tripstash/internal/analytics"
	"github.com/avelinek/tripstash/internal/config"
	"github.com/avelinek/tripstash/internal/directory"
	"github.com/avelinek/tripstash/internal/mailer"
	"github.com/avelinek/tripstash/internal/mcp"
	"github.com/avelinek/tripstash/internal/ops"
	"github.com/avelinek/tripstash/internal/preview"
	"github.com/avelinek/tripstash/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "tripstash",
		Usage:   "Travel inspiration organizer and trip planner",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(db, cfg),
			mcpCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// buildDeps wires the production collaborators. The directory capability
// is constructed here and handed only into the invite dependencies.
func buildDeps(db *sql.DB, cfg *config.Config) web.Deps {
	sink := analytics.LogSink{}
	return web.Deps{
		Fetcher: preview.NewClient(time.Duration(cfg.PreviewTimeoutSecs) * time.Second),
		Invites: ops.InviteDeps{
			Directory: directory.New(db),
			Mailer:    mailer.NewHTTPSender(cfg.MailerEndpoint, time.Duration(cfg.MailerTimeoutSecs)*time.Second),
			Sink:      sink,
		},
		Sink: sink,
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8080, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			deps := buildDeps(db, cfg)
			srv := web.NewServer(db, cfg, deps, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start the MCP server on stdio",
		Action: func(c *cli.Context) error {
			deps := buildDeps(db, cfg)
			return mcp.Run(db, cfg, deps.Fetcher, deps.Sink, Version)
		},
	}
}

package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lector/internal/core/logging"
	"github.com/colonyops/lector/internal/data/writequeue"
	"github.com/colonyops/lector/internal/lector"
	"github.com/colonyops/lector/internal/printer"
	"github.com/colonyops/lector/internal/tui"
	"github.com/colonyops/lector/internal/tui/reader"
	"github.com/colonyops/lector/pkg/profiler"
	"github.com/colonyops/lector/pkg/utils"
)

// drainTimeout bounds how long exit waits for queued progress writes.
const drainTimeout = 5 * time.Second

type ReadCmd struct {
	flags *Flags
	app   *lector.App

	// flags
	at      int
	width   int
	noWatch bool
}

// NewReadCmd creates a new read command
func NewReadCmd(flags *Flags, app *lector.App) *ReadCmd {
	return &ReadCmd{flags: flags, app: app}
}

// Register adds the read command to the application
func (cmd *ReadCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "read",
		Usage:     "Open a document in the reader",
		UsageText: "lector read [options] <file|id>",
		Description: `Opens a text file or a previously imported document in the full screen reader.

A file path is imported on first use. Reading resumes where you left off
unless --at jumps to a character offset instead.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "at",
				Usage:       "deep link to a character offset",
				Value:       -1,
				Destination: &cmd.at,
			},
			&cli.IntFlag{
				Name:        "width",
				Aliases:     []string{"w"},
				Usage:       "wrap width in columns (0 follows the terminal)",
				Value:       -1,
				Destination: &cmd.width,
			},
			&cli.BoolFlag{
				Name:        "no-watch",
				Usage:       "do not reload when the file changes",
				Destination: &cmd.noWatch,
			},
			&cli.IntFlag{
				Name:        "profiler-port",
				Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
				Sources:     cli.EnvVars("LECTOR_PROFILER_PORT"),
				Destination: &cmd.flags.ProfilerPort,
			},
		},
		ShellComplete: DocumentIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ReadCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one file or document id")
	}

	doc, err := cmd.app.Library.Resolve(ctx, c.Args().First())
	if err != nil {
		return err
	}
	ctx = logging.WithDocumentID(ctx, doc.ID)

	session, err := cmd.app.Library.Open(ctx, doc)
	if err != nil {
		return fmt.Errorf("open %s: %w", doc.Path, err)
	}
	if session.Changed {
		log.Info().Ctx(ctx).Str("path", doc.Path).Msg("document changed since import")
	}

	if cmd.flags.ProfilerPort > 0 {
		stop, err := cmd.startProfiler(ctx)
		if err != nil {
			return err
		}
		defer stop()
	}

	// The terminal belongs to the reader until it exits; notices raised in
	// the meantime are printed afterwards.
	var deferred utils.DeferredWriter
	notices := printer.New(&deferred)
	defer func() { _ = deferred.Release(os.Stderr) }()

	queue := writequeue.New(cmd.app.Documents, cmd.app.Config.Queue.Size, logging.Document("writequeue", doc.ID))
	queue.OnDrop(func(kind writequeue.Kind) {
		notices.Warnf("write queue full, dropped a %s write", kind)
	})
	defer cmd.drain(queue, notices)

	m, watcher := cmd.newModel(session, queue)
	if watcher != nil {
		defer func() { _ = watcher.Close() }()
	}

	finalModel, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run reader: %w", err)
	}

	if final, ok := finalModel.(tui.Model); ok {
		p := final.Reader().Progress()
		log.Debug().Ctx(ctx).Int("percent", p.Percent).Int("pages_left", p.PagesLeft).Msg("reader closed")
	}
	return nil
}

func (cmd *ReadCmd) newModel(session lector.Session, queue *writequeue.Queue) (tui.Model, *tui.FileWatcher) {
	cfg := *cmd.app.Config
	if cmd.width >= 0 {
		cfg.Reader.WrapWidth = cmd.width
	}

	r := reader.New(reader.Options{
		Document:   session.Document,
		Text:       session.Text,
		Config:     cfg,
		Writer:     queue,
		Bookmarks:  cmd.app.Documents,
		Vocabulary: cmd.app.Vocabulary,
		Resume:     session.Progress,
		At:         cmd.at,
		Pending:    queue.Pending,
	})

	var watcher *tui.FileWatcher
	if cfg.WatchEnabled() && !cmd.noWatch {
		w, err := tui.NewFileWatcher(session.Document.Path, session.Text)
		if err != nil {
			log.Warn().Err(err).Str("path", session.Document.Path).Msg("file watching disabled")
		} else {
			watcher = w
		}
	}

	return tui.New(r, watcher), watcher
}

func (cmd *ReadCmd) drain(queue *writequeue.Queue, notices *printer.Printer) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := queue.Close(ctx); err != nil {
		notices.Errorf("%v", err)
	}

	stats := queue.Stats()
	if stats.Failed > 0 {
		notices.Errorf("%d write(s) failed, see %s", stats.Failed, cmd.flags.LogFile)
	}
	log.Debug().
		Int("written", stats.Written).
		Int("dropped", stats.Dropped).
		Int("failed", stats.Failed).
		Msg("write queue drained")
}

func (cmd *ReadCmd) startProfiler(ctx context.Context) (func(), error) {
	server := profiler.New(cmd.flags.ProfilerPort)
	if err := server.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}
	log.Info().
		Str("url", fmt.Sprintf("http://%s/debug/pprof/", server.Addr())).
		Msg("profiler endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown profiler server")
		}
	}, nil
}

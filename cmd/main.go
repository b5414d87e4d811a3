package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sbilibin2017/fakebook-db/internal/config"
	"github.com/sbilibin2017/fakebook-db/internal/logger"
	"github.com/sbilibin2017/fakebook-db/internal/schema"
	"github.com/sbilibin2017/fakebook-db/internal/seed"
	"github.com/sbilibin2017/fakebook-db/internal/session"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the tool
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// Commands.
const (
	cmdMigrateUp   = "migrate-up"
	cmdMigrateDown = "migrate-down"
	cmdSeed        = "seed"
)

type options struct {
	configPath string
	onDelete   string
	command    string
}

func main() {
	printBuildInfo()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		log.Fatalf("fakebook stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Version: %s\nCommit: %s\nBuild date: %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses the flags and the single positional command.
func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("fakebook", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.configPath, "c", "config.env", "Path to configuration file")
	fs.StringVar(&opts.onDelete, "on-delete", "restrict", "Foreign key delete action: restrict or cascade")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: fakebook [flags] <%s|%s|%s>\n", cmdMigrateUp, cmdMigrateDown, cmdSeed)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		return options{}, fmt.Errorf("expected exactly one command, got %d", fs.NArg())
	}

	opts.command = fs.Arg(0)
	switch opts.command {
	case cmdMigrateUp, cmdMigrateDown, cmdSeed:
	default:
		return options{}, fmt.Errorf("unknown command %q", opts.command)
	}
	if _, err := deleteAction(opts.onDelete); err != nil {
		return options{}, err
	}
	return opts, nil
}

func deleteAction(s string) (schema.Action, error) {
	switch strings.ToLower(s) {
	case "restrict":
		return schema.Restrict, nil
	case "cascade":
		return schema.Cascade, nil
	default:
		return "", fmt.Errorf("unknown delete action %q", s)
	}
}

// run initializes the logger, opens a session and executes the command.
func run(ctx context.Context, cfg *config.Config, opts options) error {
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Log.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	action, err := deleteAction(opts.onDelete)
	if err != nil {
		return err
	}

	s, err := session.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer s.Close()

	switch opts.command {
	case cmdMigrateUp:
		return s.Migrate(ctx, schema.WithDeleteAction(action))
	case cmdMigrateDown:
		return s.Drop(ctx)
	case cmdSeed:
		sum, err := seed.NewSeeder(s, s.Users(), s.Posts(), s.Comments(), s.Likes()).Run(ctx, seed.Demo)
		if err != nil {
			return err
		}
		fmt.Printf("seeded %d users, %d posts, %d comments, %d likes\n", sum.Users, sum.Posts, sum.Comments, sum.Likes)
		return nil
	}
	return fmt.Errorf("unknown command %q", opts.command)
}

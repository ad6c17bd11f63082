// Package cmd implements the commands of the ofxl command line.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/ofxledger/book"
	"github.com/etnz/ofxledger/config"
	"github.com/etnz/ofxledger/logger"
	"github.com/etnz/ofxledger/ofx"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importCmd{}, "ledger")
	c.Register(&accountsCmd{}, "ledger")
	c.Register(&showCmd{}, "statement")
}

// Completion describes the subcommands for shell completion.
func Completion() map[string]*complete.Command {
	files := predict.Files("*")
	return map[string]*complete.Command{
		"import": {
			Flags: map[string]complete.Predictor{"n": predict.Nothing, "b": predict.Nothing},
			Args:  files,
		},
		"accounts": {Args: files},
		"show": {
			Flags: map[string]complete.Predictor{"path": predict.Something},
			Args:  predict.Files("*.ofx"),
		},
	}
}

// GlobalFlags describes the flags common to all commands for shell completion.
func GlobalFlags() map[string]complete.Predictor {
	return map[string]complete.Predictor{
		"config": predict.Files("*.yaml"),
		"v":      predict.Set{"debug", "info", "warn", "error"},
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the YAML configuration file (defaults to $"+config.EnvConfig+")")
var logLevel = flag.String("v", "", "Log level: debug, info, warn or error (defaults to the configuration)")

// setup loads the configuration and returns a context carrying the logger.
func setup(ctx context.Context) (context.Context, *config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return ctx, nil, err
	}
	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	return logger.WithContext(ctx, logger.New(level)), cfg, nil
}

// OpenBook loads the ledger at path, or an empty ledger if the file does not
// exist yet.
func OpenBook(ctx context.Context, path string) (*book.Book, error) {
	b, err := book.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).Warn().Str("ledger", path).Msg("ledger does not exist, starting an empty one")
		return book.New(), nil
	}
	return b, err
}

// DecodeStatement reads the statement file at path.
func DecodeStatement(ctx context.Context, path string) (*ofx.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	st, err := ofx.Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return st, nil
}

func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		fmt.Println(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

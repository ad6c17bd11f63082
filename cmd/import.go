package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ofxledger"
	"github.com/etnz/ofxledger/logger"
	"github.com/google/subcommands"
)

type importCmd struct {
	dryRun bool
	adjust bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import an investment statement into a ledger" }
func (*importCmd) Usage() string {
	return `ofxl import [-n] [-b] <ledger> <statement>

  Posts the transactions of an OFX investment statement into the ledger,
  skipping the ones already posted, and records the prices of the reported
  positions.

  The ledger is a JSON lines file, or a SQLite database (.db, .sqlite) or a
  bbolt database (.bolt). It is created if it does not exist. It is saved
  only if the whole statement was imported.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "Dry run: import but do not save the ledger.")
	f.BoolVar(&c.adjust, "b", false, "Post an adjustment when a reported position differs from the ledger.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: a ledger and a statement are required.")
		return subcommands.ExitUsageError
	}
	ledgerPath, statementPath := f.Arg(0), f.Arg(1)

	ctx, cfg, err := setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	log := logger.FromContext(ctx)

	b, err := OpenBook(ctx, ledgerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", ledgerPath, err)
		return subcommands.ExitFailure
	}
	st, err := DecodeStatement(ctx, statementPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, err := ofxledger.NewImporter(b, st, cfg).Run(ctx, ofxledger.Options{AdjustPositions: c.adjust})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", statementPath, err)
		return subcommands.ExitFailure
	}
	if err := report.Render(os.Stdout); err != nil {
		fmt.Println(report.Markdown())
	}

	if c.dryRun {
		log.Info().Str("ledger", ledgerPath).Msg("dry run, ledger not saved")
		return subcommands.ExitSuccess
	}
	if err := b.Save(ledgerPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger %q: %v\n", ledgerPath, err)
		return subcommands.ExitFailure
	}
	log.Info().Str("ledger", ledgerPath).Int("transactions", len(b.Transactions())).Msg("ledger saved")
	return subcommands.ExitSuccess
}

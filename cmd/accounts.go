package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ofxledger/book"
	"github.com/google/subcommands"
	md "github.com/nao1215/markdown"
)

type accountsCmd struct {
	all bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the accounts of a ledger with their balance" }
func (*accountsCmd) Usage() string {
	return `ofxl accounts [-a] <ledger>

  Lists the accounts of the ledger, with their code and balance. Empty
  accounts are hidden unless -a is given.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "a", false, "Also list the accounts without splits.")
}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: a ledger is required.")
		return subcommands.ExitUsageError
	}
	b, err := book.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	printMarkdown(accountsMarkdown(b, c.all))
	return subcommands.ExitSuccess
}

// accountsMarkdown renders the account tree as a markdown table.
func accountsMarkdown(b *book.Book, all bool) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"Account", "Code", "Type", "Balance"},
		Rows:      [][]string{},
	}
	b.Root().Walk(func(a *book.Account) {
		if a.Parent() == nil || (!all && len(a.Splits()) == 0) {
			return
		}
		code := a.Code()
		if code == "" {
			code = "-"
		}
		table.Rows = append(table.Rows, []string{a.Path(), code, a.Type().String(), a.Balance().String() + " " + a.Commodity().Mnemonic()})
	})
	doc.Table(table)
	return doc.String()
}

package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/ofxledger/ofx"
	"github.com/google/subcommands"
)

type showCmd struct {
	path string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print a decoded statement as JSON" }
func (*showCmd) Usage() string {
	return `ofxl show [-path <jsonpath>] <statement>

  Decodes an OFX investment statement and prints it as JSON. With -path, only
  the values selected by the JSONPath expression are printed, for instance:

    ofxl show -path '$.Response.Positions[*].Units' statement.ofx
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "path", "", "JSONPath expression selecting what to print.")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: a statement is required.")
		return subcommands.ExitUsageError
	}
	ctx, _, err := setup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	st, err := DecodeStatement(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	out, err := statementJSON(st, c.path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}

// statementJSON returns the indented JSON of st, or of the values selected by
// the JSONPath expression path if not empty.
func statementJSON(st *ofx.Statement, path string) ([]byte, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	if path != "" {
		if v, err = jsonpath.Get(path, v); err != nil {
			return nil, fmt.Errorf("error evaluating %q: %w", path, err)
		}
	}
	return json.MarshalIndent(v, "", "  ")
}

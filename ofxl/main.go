// Command ofxl imports OFX investment statements into a double-entry ledger.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/ofxledger/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when invoked by the shell for completion
	comp := &complete.Command{Sub: cmd.Completion(), Flags: cmd.GlobalFlags()}
	comp.Complete(name)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

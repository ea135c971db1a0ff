package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

func Main(args []string, journal, output io.Writer) {
	App := cli.NewApp()

	App.Name = "cat"
	App.Usage = "Comparative annotation, from whole-genome alignment to submission-ready tables."
	App.Version = "0.0.1"

	App.Writer = journal

	App.Commands = []cli.Command{
		RunCommandPattern(journal, output),
		FilterTransmapCommandPattern(journal),
		NcbiSubmitCommandPattern(journal),
		CheckCommandPattern(journal),
		CiCommandPattern(journal),
	}

	// Reporting "no help topic for 'zyx'" and exiting with a *zero* is... silly.
	// A failure to hit a command should be an error: if a script does
	// `cat-pipeline somethingimportant`, it has to *stop* when that's not there.
	App.CommandNotFound = func(ctx *cli.Context, command string) {
		fmt.Fprintf(ctx.App.Writer, "'%s %v' is not a %s subcommand\n", ctx.App.Name, command, ctx.App.Name)
		os.Exit(int(EXIT_BADARGS))
	}

	App.Run(args)
}

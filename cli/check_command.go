package cli

import (
	"fmt"
	"io"

	"github.com/spacemonkeygo/errors"
	"github.com/spacemonkeygo/errors/try"
	"github.com/urfave/cli"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/harness"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/ncbisubmit"
)

func CheckCommandPattern(journal io.Writer) cli.Command {
	return cli.Command{
		Name:  "check",
		Usage: "Run the NCBI submission golden-fixture check",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "fixture-dir",
				Value: harness.DefaultFixtureDir,
				Usage: "Fixture tree to check against",
			},
			cli.StringFlag{
				Name:  "results-dir",
				Usage: "Where produced files land (default <fixture-dir>/results)",
			},
			cli.BoolFlag{
				Name:  "clean",
				Usage: "Remove the results of previous checks and exit",
			},
			cli.StringFlag{
				Name:  "log-level",
				Value: "INFO",
				Usage: "DEBUG, INFO, WARN, or ERROR",
			},
		},
		Action: func(ctx *cli.Context) {
			opts := harness.Options{
				FixtureDir: ctx.String("fixture-dir"),
				ResultsDir: ctx.String("results-dir"),
			}
			if ctx.Bool("clean") {
				if err := harness.Clean(opts); err != nil {
					panic(Error.NewWith(err.Error(), SetExitCode(EXIT_USER)))
				}
				return
			}
			log := makeLogger(ctx.String("log-level"), journal)
			try.Do(func() {
				result := harness.Check(opts, log)
				if !result.Match {
					fmt.Fprintf(journal, "feature table diverges from the golden fixture at %s\n", result.Divergence)
					panic(Error.NewWith("golden check failed", SetExitCode(EXIT_JOB)))
				}
			}).Catch(harness.FixtureError, func(err *errors.Error) {
				panic(Error.NewWith(err.Message(), SetExitCode(EXIT_USER)))
			}).Catch(ncbisubmit.Error, func(err *errors.Error) {
				panic(Error.NewWith(err.Message(), SetExitCode(EXIT_USER)))
			}).Done()
		},
	}
}

package cli

import (
	"io"

	"github.com/spacemonkeygo/errors"
	"github.com/spacemonkeygo/errors/try"
	"github.com/urfave/cli"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/transmap"
)

func FilterTransmapCommandPattern(journal io.Writer) cli.Command {
	return cli.Command{
		Name:  "filter-transmap",
		Usage: "Filter transMap alignments: resolve paralogs and split genes",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "tm-gp",
				Usage: "transMap genePred for the target genome",
			},
			cli.StringFlag{
				Name:  "ref-db",
				Usage: "Reference genome annotation database",
			},
			cli.StringFlag{
				Name:  "db",
				Usage: "Target genome database (evaluation in, verdicts out)",
			},
			cli.StringFlag{
				Name:  "genome",
				Usage: "Target genome name",
			},
			cli.StringFlag{
				Name:  "out-gp",
				Usage: "Where the filtered genePred goes",
			},
			cli.StringFlag{
				Name:  "metrics",
				Usage: "Where the metrics json goes (optional)",
			},
			cli.BoolFlag{
				Name:  "resolve-split-genes",
				Usage: "Drop transcripts stranded off the parental contig",
			},
			cli.StringFlag{
				Name:  "log-level",
				Value: "INFO",
				Usage: "DEBUG, INFO, WARN, or ERROR",
			},
		},
		Action: func(ctx *cli.Context) {
			opts := transmap.Options{
				TmGp:              ctx.String("tm-gp"),
				RefDB:             ctx.String("ref-db"),
				DB:                ctx.String("db"),
				Genome:            ctx.String("genome"),
				ResolveSplitGenes: ctx.Bool("resolve-split-genes"),
				OutGp:             ctx.String("out-gp"),
				MetricsOut:        ctx.String("metrics"),
			}
			if opts.TmGp == "" || opts.RefDB == "" || opts.DB == "" || opts.OutGp == "" {
				panic(Error.NewWith("filter-transmap requires --tm-gp, --ref-db, --db, and --out-gp", SetExitCode(EXIT_BADARGS)))
			}
			log := makeLogger(ctx.String("log-level"), journal)
			try.Do(func() {
				transmap.Filter(opts, log)
			}).Catch(transmap.InputError, func(err *errors.Error) {
				panic(Error.NewWith(err.Message(), SetExitCode(EXIT_USER)))
			}).Catch(transmap.DBError, func(err *errors.Error) {
				panic(Error.NewWith(err.Message(), SetExitCode(EXIT_USER)))
			}).Done()
		},
	}
}

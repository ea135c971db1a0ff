package cli

import (
	"io"
	"strings"

	"github.com/spacemonkeygo/errors"
	"github.com/spacemonkeygo/errors/try"
	"github.com/ugorji/go/codec"
	"github.com/urfave/cli"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/def"
	executordispatch "github.com/jasongallant/Comparative-Annotation-Toolkit/executor/dispatch"
	"github.com/jasongallant/Comparative-Annotation-Toolkit/pipeline"
	schedulerdispatch "github.com/jasongallant/Comparative-Annotation-Toolkit/scheduler/dispatch"
)

func RunCommandPattern(journal, output io.Writer) cli.Command {
	return cli.Command{
		Name:  "run",
		Usage: "Run the annotation pipeline over a HAL alignment",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "hal",
				Usage: "Path to the HAL alignment file",
			},
			cli.StringFlag{
				Name:  "ref-genome",
				Usage: "Name of the reference genome inside the HAL",
			},
			cli.StringFlag{
				Name:  "target-genomes",
				Usage: "Comma-separated genomes to annotate",
			},
			cli.IntFlag{
				Name:  "workers",
				Value: 1,
				Usage: "How many stages may run at once",
			},
			cli.StringFlag{
				Name:  "config",
				Usage: "Path to the yaml config mapping genomes to input files",
			},
			cli.StringFlag{
				Name:  "work-dir",
				Value: "work",
				Usage: "Scratch space; contents are disposable",
			},
			cli.StringFlag{
				Name:  "out-dir",
				Value: "out",
				Usage: "Where stage outputs land",
			},
			cli.BoolFlag{
				Name:  "local-scheduler",
				Usage: "Run stages one at a time regardless of --workers",
			},
			cli.StringFlag{
				Name:  "binary-mode",
				Value: def.BinaryModeLocal,
				Usage: "How stage binaries run: local, docker, or singularity",
			},
			cli.StringFlag{
				Name:  "log-level",
				Value: "INFO",
				Usage: "DEBUG, INFO, WARN, or ERROR",
			},
			cli.BoolFlag{
				Name:  "augustus",
				Usage: "Run the augustus ab-initio stages",
			},
			cli.BoolFlag{
				Name:  "augustus-cgp",
				Usage: "Run the comparative augustus stages",
			},
			cli.BoolFlag{
				Name:  "augustus-pb",
				Usage: "Run the isoseq-informed augustus stages",
			},
			cli.BoolFlag{
				Name:  "assembly-hub",
				Usage: "Build a browser assembly hub after annotation",
			},
			cli.IntFlag{
				Name:  "max-cores",
				Usage: "Ceiling on cores any one stage may assume (0 = uncapped)",
			},
			cli.Int64Flag{
				Name:  "max-memory",
				Usage: "Ceiling on memory in bytes any one stage may assume (0 = uncapped)",
			},
			cli.Int64Flag{
				Name:  "max-disk",
				Usage: "Ceiling on disk in bytes any one stage may assume (0 = uncapped)",
			},
		},
		Action: func(ctx *cli.Context) {
			p := def.Pipeline{
				Hal:            ctx.String("hal"),
				RefGenome:      ctx.String("ref-genome"),
				TargetGenomes:  splitGenomes(ctx.String("target-genomes")),
				Workers:        ctx.Int("workers"),
				Config:         ctx.String("config"),
				WorkDir:        ctx.String("work-dir"),
				OutDir:         ctx.String("out-dir"),
				LocalScheduler: ctx.Bool("local-scheduler"),
				BinaryMode:     ctx.String("binary-mode"),
				LogLevel:       ctx.String("log-level"),
				Augustus:       ctx.Bool("augustus"),
				AugustusCGP:    ctx.Bool("augustus-cgp"),
				AugustusPB:     ctx.Bool("augustus-pb"),
				AssemblyHub:    ctx.Bool("assembly-hub"),
				Caps: def.ResourceCaps{
					MaxCores:  ctx.Int("max-cores"),
					MaxMemory: ctx.Int64("max-memory"),
					MaxDisk:   ctx.Int64("max-disk"),
				},
			}

			var report *pipeline.Report
			try.Do(func() {
				def.ValidateAll(&p)
				cfg := pipeline.LoadConfigFromFile(p.Config)
				pipeline.ValidateConfig(cfg, p)

				log := makeLogger(p.LogLevel, journal)
				executor := executordispatch.Get(p.BinaryMode)
				scheduler := schedulerdispatch.Get(p.LocalScheduler, p.Workers)
				scheduler.Configure(executor)
				scheduler.Start()

				report = pipeline.Run(p, cfg, scheduler, journal, log)
			}).Catch(def.ValidationError, func(err *errors.Error) {
				panic(Error.NewWith(err.Message(), SetExitCode(EXIT_BADARGS)))
			}).Catch(def.ConfigError, func(err *errors.Error) {
				panic(Error.NewWith(err.Message(), SetExitCode(EXIT_USER)))
			}).Done()

			// The report goes to "output" (typically stdout) so it can be
			// piped and parsed mechanically; all logs went to "journal".
			if err := codec.NewEncoder(output, &codec.JsonHandle{Indent: 2}).Encode(report); err != nil {
				panic(err)
			}
			output.Write([]byte{'\n'})
			if report.Failed {
				panic(Error.NewWith("pipeline finished with failed stages", SetExitCode(EXIT_JOB)))
			}
		},
	}
}

func splitGenomes(raw string) []string {
	var genomes []string
	for _, g := range strings.Split(raw, ",") {
		g = strings.TrimSpace(g)
		if g != "" {
			genomes = append(genomes, g)
		}
	}
	return genomes
}

package cli

import (
	"io"
	"os"

	"github.com/spacemonkeygo/errors"
	"github.com/spacemonkeygo/errors/try"
	"github.com/urfave/cli"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/ci"
)

func CiCommandPattern(journal io.Writer) cli.Command {
	return cli.Command{
		Name:      "ci",
		Usage:     "Run a CI stage: docker-build or test",
		ArgsUsage: "<stage>",
		Action: func(ctx *cli.Context) {
			args := ctx.Args()
			if len(args) != 1 {
				panic(Error.NewWith("ci takes exactly one argument: the stage name", SetExitCode(EXIT_BADARGS)))
			}
			log := makeLogger("INFO", journal)
			try.Do(func() {
				switch args[0] {
				case "docker-build":
					ci.DockerBuild(ci.FromEnv(), log)
				case "test":
					selfExe, err := os.Executable()
					if err != nil {
						panic(ci.StageError.New("cannot locate own binary: %s", err))
					}
					ci.Test(selfExe, log)
				default:
					panic(Error.NewWith("no such ci stage "+args[0], SetExitCode(EXIT_BADARGS)))
				}
			}).Catch(ci.CredentialsError, func(err *errors.Error) {
				panic(Error.NewWith(err.Message(), SetExitCode(EXIT_USER)))
			}).Catch(ci.StageError, func(err *errors.Error) {
				panic(Error.NewWith(err.Message(), SetExitCode(EXIT_JOB)))
			}).Done()
		},
	}
}

package cli

import (
	"io"

	"github.com/spacemonkeygo/errors"
	"github.com/spacemonkeygo/errors/try"
	"github.com/urfave/cli"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/ncbisubmit"
)

func NcbiSubmitCommandPattern(journal io.Writer) cli.Command {
	return cli.Command{
		Name:      "ncbi-submit",
		Usage:     "Convert a genePred plus its attributes into an NCBI feature table",
		ArgsUsage: "<in.gp> <in.gp_info> <locus_tag_token> <out.tbl>",
		Action: func(ctx *cli.Context) {
			args := ctx.Args()
			if len(args) != 4 {
				panic(Error.NewWith("ncbi-submit takes exactly four arguments: <in.gp> <in.gp_info> <locus_tag_token> <out.tbl>", SetExitCode(EXIT_BADARGS)))
			}
			try.Do(func() {
				ncbisubmit.Convert(args[0], args[1], args[2], args[3])
			}).Catch(ncbisubmit.Error, func(err *errors.Error) {
				panic(Error.NewWith(err.Message(), SetExitCode(EXIT_USER)))
			}).Done()
		},
	}
}

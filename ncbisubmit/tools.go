package ncbisubmit

import (
	"os"
	"os/exec"

	"github.com/polydawn/gosh"
)

/*
	SubmitInputs names everything the NCBI conversion tools want on disk:
	the genome fasta (large; typically not tracked in version control),
	the submission template, and the feature table we just produced.
*/
type SubmitInputs struct {
	Fasta    string // genome sequence, .fa
	Template string // submitter template, .sbt
	Table    string // feature table, .tbl
}

/*
	Available reports whether a run of the given tool can work at all:
	the binary must be on PATH and the fasta fixture must exist.  The
	harness uses this to gate the optional submission passes, mirroring
	the file-existence checks the old Makefile did.
*/
func (in SubmitInputs) Available(tool string) bool {
	if _, err := exec.LookPath(tool); err != nil {
		return false
	}
	if _, err := os.Stat(in.Fasta); err != nil {
		return false
	}
	return true
}

/*
	Table2asn runs NCBI table2asn over the inputs, producing sqnOut and a
	validation report next to it.  Panics with `ToolError` on nonzero exit.
*/
func Table2asn(in SubmitInputs, sqnOut string) {
	runTool("table2asn",
		"-t", in.Template,
		"-i", in.Fasta,
		"-f", in.Table,
		"-o", sqnOut,
		"-V", "v",
		"-Z",
	)
}

/*
	Tbl2asn runs the older NCBI tbl2asn over the inputs, producing sqnOut
	plus the named discrepancy report.  Panics with `ToolError` on
	nonzero exit.
*/
func Tbl2asn(in SubmitInputs, sqnOut, reportOut string) {
	runTool("tbl2asn",
		"-t", in.Template,
		"-i", in.Fasta,
		"-f", in.Table,
		"-o", sqnOut,
		"-V", "vb",
		"-a", "s",
		"-Z", reportOut,
	)
}

func runTool(tool string, args ...string) {
	cmd := gosh.Gosh(tool, args, gosh.Opts{OkExit: gosh.AnyExit})
	code := cmd.Run().GetExitCode()
	if code != 0 {
		panic(ToolError.New("%s exited %d", tool, code))
	}
}

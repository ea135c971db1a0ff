package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/testutil"
)

var (
	// os flag parsing mandates the executable name
	baseArgs = []string{"cat-pipeline"}
)

func discardMain(args ...string) {
	Main(append(baseArgs, args...), io.Discard, io.Discard)
}

func Test(t *testing.T) {
	Convey("It should not crash without args", t, func() {
		Main(baseArgs, io.Discard, io.Discard)
	})

	Convey("ncbi-submit", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			gp := filepath.Join(tmpDir, "in.gp")
			info := filepath.Join(tmpDir, "in.gp_info")
			out := filepath.Join(tmpDir, "out.tbl")
			So(os.WriteFile(gp, []byte("tx1\tchr1\t+\t0\t100\t0\t100\t1\t0,\t100,\t0\tg1\tcmpl\tcmpl\t0,\n"), 0644), ShouldBeNil)
			So(os.WriteFile(info, []byte("transcript_id\tgene_id\ttranscript_biotype\ntx1\tg1\tprotein_coding\n"), 0644), ShouldBeNil)

			Convey("converts with exactly four arguments", func() {
				discardMain("ncbi-submit", gp, info, "tok", out)
				So(out, testutil.ShouldBeFile)
			})

			Convey("rejects the wrong argument count", func() {
				So(func() {
					discardMain("ncbi-submit", gp, info)
				}, testutil.ShouldPanicWith, Error)
			})

			Convey("maps converter complaints onto user errors", func() {
				So(func() {
					discardMain("ncbi-submit", filepath.Join(tmpDir, "nope.gp"), info, "tok", out)
				}, testutil.ShouldPanicWith, Error)
			})
		})
	})

	Convey("filter-transmap rejects missing required flags", t, func() {
		So(func() {
			discardMain("filter-transmap", "--tm-gp", "x.gp")
		}, testutil.ShouldPanicWith, Error)
	})

	Convey("run rejects an unvalidatable pipeline", t, func() {
		Convey("no hal", func() {
			So(func() {
				discardMain("run", "--ref-genome", "hg38", "--target-genomes", "mm10")
			}, testutil.ShouldPanicWith, Error)
		})

		Convey("unknown binary mode", func() {
			So(func() {
				discardMain("run",
					"--hal", "aln.hal",
					"--ref-genome", "hg38",
					"--target-genomes", "mm10",
					"--binary-mode", "teleport")
			}, testutil.ShouldPanicWith, Error)
		})

		Convey("missing config file", func() {
			So(func() {
				discardMain("run",
					"--hal", "aln.hal",
					"--ref-genome", "hg38",
					"--target-genomes", "mm10",
					"--config", "/does/not/exist.yaml")
			}, testutil.ShouldPanicWith, Error)
		})
	})

	Convey("ci rejects unknown stages", t, func() {
		So(func() {
			discardMain("ci", "deploy-to-mars")
		}, testutil.ShouldPanicWith, Error)
	})

	Convey("check --clean is a quiet no-op when there is nothing to clean", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			var journal bytes.Buffer
			Main(append(baseArgs, "check", "--fixture-dir", tmpDir, "--clean"), &journal, io.Discard)
		})
	})
}

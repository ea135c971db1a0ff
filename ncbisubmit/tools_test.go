package ncbisubmit

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/testutil"
)

func TestAvailable(t *testing.T) {
	Convey("Tool availability gating", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			fasta := filepath.Join(tmpDir, "genome.fa")
			So(os.WriteFile(fasta, []byte(">chr1\nACGT\n"), 0644), ShouldBeNil)
			in := SubmitInputs{Fasta: fasta}

			Convey("A tool nobody has is unavailable", func() {
				So(in.Available("cat-no-such-tool-xyzzy"), ShouldBeFalse)
			})

			Convey("A tool on PATH with the fasta on disk is available", func() {
				So(in.Available("sh"), ShouldBeTrue)
			})

			Convey("A tool on PATH without the fasta is unavailable", func() {
				missing := SubmitInputs{Fasta: filepath.Join(tmpDir, "nope.fa")}
				So(missing.Available("sh"), ShouldBeFalse)
			})
		})
	})
}

func TestToolDrivers(t *testing.T) {
	// the tool drivers only care about exit codes, so stub binaries on
	// PATH stand in for the real (huge, unversioned) NCBI downloads.
	testutil.Convey_IfHaveTool("sh", "Driving the conversion tools through stubs", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			binDir := filepath.Join(tmpDir, "bin")
			So(os.MkdirAll(binDir, 0755), ShouldBeNil)
			writeStubTool(binDir, "table2asn", "#!/bin/sh\nexit 0\n")
			writeStubTool(binDir, "tbl2asn", "#!/bin/sh\nexit 3\n")
			oldPath := os.Getenv("PATH")
			So(os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath), ShouldBeNil)
			defer os.Setenv("PATH", oldPath)

			in := SubmitInputs{
				Fasta:    filepath.Join(tmpDir, "genome.fa"),
				Template: filepath.Join(tmpDir, "template.sbt"),
				Table:    filepath.Join(tmpDir, "in.tbl"),
			}

			Convey("A clean tool exit comes back quietly", func() {
				So(func() {
					Table2asn(in, filepath.Join(tmpDir, "out.sqn"))
				}, ShouldNotPanic)
			})

			Convey("A nonzero tool exit is a ToolError", func() {
				So(func() {
					Tbl2asn(in, filepath.Join(tmpDir, "out.sqn"), filepath.Join(tmpDir, "discrepancy.report"))
				}, testutil.ShouldPanicWith, ToolError)
			})
		})
	})
}

func writeStubTool(dir, name, script string) {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0755); err != nil {
		panic(err)
	}
}

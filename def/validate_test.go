package def

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/testutil"
)

func TestValidateAll(t *testing.T) {
	Convey("Given a minimal valid pipeline", t, func() {
		p := Pipeline{
			Hal:           "aln.hal",
			RefGenome:     "human",
			TargetGenomes: []string{"gorilla", "chimp"},
		}

		Convey("ValidateAll should fill in the defaults", func() {
			ValidateAll(&p)
			So(p.Workers, ShouldEqual, 1)
			So(p.BinaryMode, ShouldEqual, BinaryModeLocal)
			So(p.LogLevel, ShouldEqual, "INFO")
			So(p.WorkDir, ShouldEqual, "work")
			So(p.OutDir, ShouldEqual, "out")
		})

		Convey("ValidateAll should sort the target genomes", func() {
			ValidateAll(&p)
			So(p.TargetGenomes, ShouldResemble, []string{"chimp", "gorilla"})
		})

		Convey("Explicitly configured values should be left alone", func() {
			p.Workers = 2
			p.BinaryMode = BinaryModeSingularity
			p.LogLevel = "DEBUG"
			ValidateAll(&p)
			So(p.Workers, ShouldEqual, 2)
			So(p.BinaryMode, ShouldEqual, BinaryModeSingularity)
			So(p.LogLevel, ShouldEqual, "DEBUG")
		})
	})

	Convey("Degenerate pipelines should be rejected", t, func() {
		Convey("Missing hal", func() {
			p := Pipeline{RefGenome: "human", TargetGenomes: []string{"chimp"}}
			So(func() { ValidateAll(&p) }, testutil.ShouldPanicWith, ValidationError)
		})
		Convey("No targets", func() {
			p := Pipeline{Hal: "aln.hal", RefGenome: "human"}
			So(func() { ValidateAll(&p) }, testutil.ShouldPanicWith, ValidationError)
		})
		Convey("Reference listed as a target", func() {
			p := Pipeline{Hal: "aln.hal", RefGenome: "human", TargetGenomes: []string{"chimp", "human"}}
			So(func() { ValidateAll(&p) }, testutil.ShouldPanicWith, ValidationError)
		})
		Convey("Duplicate target", func() {
			p := Pipeline{Hal: "aln.hal", RefGenome: "human", TargetGenomes: []string{"chimp", "chimp"}}
			So(func() { ValidateAll(&p) }, testutil.ShouldPanicWith, ValidationError)
		})
		Convey("Unknown binary mode", func() {
			p := Pipeline{Hal: "aln.hal", RefGenome: "human", TargetGenomes: []string{"chimp"}, BinaryMode: "podman"}
			So(func() { ValidateAll(&p) }, testutil.ShouldPanicWith, ValidationError)
		})
	})
}

func TestEnvMerge(t *testing.T) {
	Convey("Env.Merge should prefer existing values", t, func() {
		keep := Env{"A": "1", "B": "2"}
		keep.Merge(Env{"B": "overruled", "C": "3"})
		So(keep, ShouldResemble, Env{"A": "1", "B": "2", "C": "3"})
	})
}

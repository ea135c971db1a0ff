/*
	Package harness replays the NCBI submission golden test that used to
	live in a Makefile: convert the checked-in genePred fixture to a
	feature table, diff it against the expected table, and -- when the
	tools and the genome fasta happen to be present -- push the table
	through table2asn and tbl2asn for an extra opinion.
*/
package harness

import (
	"os"
	"path/filepath"

	"github.com/inconshreveable/log15"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/ncbisubmit"
)

// Layout of the fixture tree and the token the golden table was made with.
const (
	DefaultFixtureDir = "test_ncbi_submit"
	fixtureToken      = "fred"
	fixtureName       = "chimp1"
	expectedTable     = "ncbi_submit_test1.tbl"
)

type Options struct {
	FixtureDir string // fixture tree; DefaultFixtureDir if empty.
	ResultsDir string // where produced files land; <FixtureDir>/results if empty.
}

/*
	Result reports one harness run.  Match is the verdict on the feature
	table itself; the tool passes are advisory and recorded separately.
*/
type Result struct {
	TablePath  string
	Match      bool
	Divergence *Divergence

	Table2asnRan bool
	Tbl2asnRan   bool
}

func (o *Options) fill() {
	if o.FixtureDir == "" {
		o.FixtureDir = DefaultFixtureDir
	}
	if o.ResultsDir == "" {
		o.ResultsDir = filepath.Join(o.FixtureDir, "results")
	}
}

/*
	Check runs the golden test.

	Panics with `FixtureError` when the fixture tree is incomplete, and
	lets the converter's own error classes through untouched.  A diff
	mismatch is not a panic; it comes back in the Result so the CLI can
	print the divergence and pick the exit code.
*/
func Check(opts Options, log log15.Logger) *Result {
	opts.fill()

	gp := filepath.Join(opts.FixtureDir, "input", fixtureName+".gp")
	info := filepath.Join(opts.FixtureDir, "input", fixtureName+".gp_info")
	expected := filepath.Join(opts.FixtureDir, "expected", expectedTable)
	for _, f := range []string{gp, info, expected} {
		if _, err := os.Stat(f); err != nil {
			panic(FixtureError.New("fixture file missing: %s", f))
		}
	}
	if err := os.MkdirAll(opts.ResultsDir, 0755); err != nil {
		panic(FixtureError.New("cannot create results dir: %s", err))
	}

	result := &Result{TablePath: filepath.Join(opts.ResultsDir, fixtureName+".tbl")}
	log.Info("converting fixture", "gp", gp, "out", result.TablePath)
	ncbisubmit.Convert(gp, info, fixtureToken, result.TablePath)

	got, err := os.ReadFile(result.TablePath)
	if err != nil {
		panic(FixtureError.New("cannot read produced table: %s", err))
	}
	want, err := os.ReadFile(expected)
	if err != nil {
		panic(FixtureError.New("cannot read expected table: %s", err))
	}
	result.Divergence = DiffLines(string(got), string(want))
	result.Match = result.Divergence == nil
	if result.Match {
		log.Info("feature table matches golden fixture")
	} else {
		log.Error("feature table diverges from golden fixture", "at", result.Divergence.Line)
	}

	inputs := ncbisubmit.SubmitInputs{
		Fasta:    filepath.Join(opts.FixtureDir, "input", fixtureName+".fa"),
		Template: filepath.Join(opts.FixtureDir, "input", "template.sbt"),
		Table:    result.TablePath,
	}
	if inputs.Available("table2asn") {
		log.Info("running table2asn pass")
		ncbisubmit.Table2asn(inputs, filepath.Join(opts.ResultsDir, fixtureName+".sqn"))
		result.Table2asnRan = true
	} else {
		log.Debug("skipping table2asn pass", "reason", "tool or fasta unavailable")
	}
	if inputs.Available("tbl2asn") {
		log.Info("running tbl2asn pass")
		ncbisubmit.Tbl2asn(inputs,
			filepath.Join(opts.ResultsDir, fixtureName+".tbl2asn.sqn"),
			filepath.Join(opts.ResultsDir, "discrepancy.report"))
		result.Tbl2asnRan = true
	} else {
		log.Debug("skipping tbl2asn pass", "reason", "tool or fasta unavailable")
	}
	return result
}

// Clean removes everything a Check run produced.
func Clean(opts Options) error {
	opts.fill()
	return os.RemoveAll(opts.ResultsDir)
}

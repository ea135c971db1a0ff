package transmap

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/inconshreveable/log15"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/testutil"
)

func quietLog() log15.Logger {
	log := log15.New()
	log.SetHandler(log15.DiscardHandler())
	return log
}

type evalFixture struct {
	alnID, txID        string
	identity, coverage float64
	paralogy, synteny  int
}

func buildRefDB(path string, txToGene map[string]string) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		panic(err)
	}
	defer db.Close()
	mustExec(db, `CREATE TABLE annotation (
		TranscriptId TEXT, GeneId TEXT, TranscriptName TEXT, GeneName TEXT,
		TranscriptBiotype TEXT, GeneBiotype TEXT)`)
	for tx, gene := range txToGene {
		mustExec(db, `INSERT INTO annotation VALUES (?, ?, ?, ?, ?, ?)`,
			tx, gene, tx+"-name", gene+"-name", "protein_coding", "protein_coding")
	}
}

func buildEvalDB(path string, rows []evalFixture) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		panic(err)
	}
	defer db.Close()
	mustExec(db, `CREATE TABLE alignment_evaluation (
		AlignmentId TEXT, TranscriptId TEXT, TransMapIdentity REAL,
		TransMapCoverage REAL, Paralogy INTEGER, Synteny INTEGER)`)
	for _, r := range rows {
		mustExec(db, `INSERT INTO alignment_evaluation VALUES (?, ?, ?, ?, ?, ?)`,
			r.alnID, r.txID, r.identity, r.coverage, r.paralogy, r.synteny)
	}
}

func mustExec(db *sql.DB, q string, args ...interface{}) {
	if _, err := db.Exec(q, args...); err != nil {
		panic(err)
	}
}

// one genePred row per alignment; coordinates vary only where the test cares.
func gpRow(name, chrom string, start, end int) string {
	s, e := strconv.Itoa(start), strconv.Itoa(end)
	return strings.Join([]string{
		name, chrom, "+",
		s, e, s, e,
		"1", s + ",", e + ",",
		"0", "gene", "cmpl", "cmpl", "0,",
	}, "\t")
}

func TestFilter(t *testing.T) {
	Convey("Given a target genome with one paralogous and one split gene", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			refDB := filepath.Join(tmpDir, "ref.db")
			evalDB := filepath.Join(tmpDir, "chimp.db")
			tmGp := filepath.Join(tmpDir, "chimp.tm.gp")
			outGp := filepath.Join(tmpDir, "chimp.filtered.gp")
			metricsOut := filepath.Join(tmpDir, "metrics.json")

			buildRefDB(refDB, map[string]string{
				"tx1": "g1", "tx2": "g2", "tx3": "g3",
				"tx4": "g4", "tx5": "g5", "tx6": "g6", "tx7": "g6",
			})
			buildEvalDB(evalDB, []evalFixture{
				// tx1 mapped twice; the good copy should win on the model.
				{"tx1-1", "tx1", 95, 100, 2, 6},
				{"tx1-2", "tx1", 60, 50, 2, 0},
				// 1-1 orthologs anchoring the identity fit.
				{"tx2-1", "tx2", 96, 100, 1, 6},
				{"tx3-1", "tx3", 97, 100, 1, 6},
				{"tx4-1", "tx4", 94, 100, 1, 6},
				{"tx5-1", "tx5", 95.5, 100, 1, 6},
				// gene g6 split across chr1 and chr3; chr1 has better synteny.
				{"tx6-1", "tx6", 95, 100, 1, 6},
				{"tx7-1", "tx7", 95, 100, 1, 0},
			})
			gp := strings.Join([]string{
				gpRow("tx1-1", "chr1", 100, 500),
				gpRow("tx1-2", "chr2", 100, 500),
				gpRow("tx2-1", "chr1", 1000, 1500),
				gpRow("tx3-1", "chr1", 2000, 2500),
				gpRow("tx4-1", "chr1", 3000, 3500),
				gpRow("tx5-1", "chr1", 4000, 4500),
				gpRow("tx6-1", "chr1", 5000, 6000),
				gpRow("tx7-1", "chr3", 100, 500),
			}, "\n") + "\n"
			So(os.WriteFile(tmGp, []byte(gp), 0644), ShouldBeNil)

			opts := Options{
				TmGp: tmGp, RefDB: refDB, DB: evalDB,
				Genome: "chimp", ResolveSplitGenes: true,
				OutGp: outGp, MetricsOut: metricsOut,
			}
			metrics := Filter(opts, quietLog())

			Convey("The weak paralog and the stranded split-gene copy are dropped", func() {
				out, err := os.ReadFile(outGp)
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
				var names []string
				for _, l := range lines {
					names = append(names, strings.SplitN(l, "\t", 2)[0])
				}
				So(names, ShouldResemble, []string{"tx1-1", "tx2-1", "tx3-1", "tx4-1", "tx5-1", "tx6-1"})
			})

			Convey("Paralogy metrics account for the model resolution", func() {
				m := metrics.Paralogy["protein_coding"]
				So(m, ShouldNotBeNil)
				So(m.ModelPrediction, ShouldEqual, 1)
				So(m.AlignmentsDiscarded, ShouldEqual, 1)
				So(m.ArbitrarilyResolved, ShouldEqual, 0)
			})

			Convey("Split gene metrics see one contig split and one removal", func() {
				So(metrics.SplitGenes.ContigSplitGenes, ShouldEqual, 1)
				So(metrics.SplitGenes.IntraContigSplitGenes, ShouldEqual, 0)
				So(metrics.SplitGenes.TranscriptsRemoved, ShouldEqual, 1)
			})

			Convey("An identity cutoff was established for protein_coding", func() {
				cutoff := metrics.IdentityCutoffs["protein_coding"]
				So(cutoff, ShouldNotBeNil)
				// the fit should land between the failing 94 and the passing 95.
				So(*cutoff, ShouldBeGreaterThan, 94)
				So(*cutoff, ShouldBeLessThan, 95)
			})

			Convey("Verdicts are stored back into the target database", func() {
				db, err := sql.Open("sqlite", evalDB)
				So(err, ShouldBeNil)
				defer db.Close()
				var count int
				So(db.QueryRow(`SELECT COUNT(*) FROM transmap_filter`).Scan(&count), ShouldBeNil)
				So(count, ShouldEqual, 6)
				var class, status string
				So(db.QueryRow(`SELECT TranscriptClass, ParalogStatus FROM transmap_filter WHERE AlignmentId = 'tx1-1'`).Scan(&class, &status), ShouldBeNil)
				So(class, ShouldEqual, "passing")
				So(status, ShouldEqual, "Confident")
				So(db.QueryRow(`SELECT TranscriptClass FROM transmap_filter WHERE AlignmentId = 'tx4-1'`).Scan(&class), ShouldBeNil)
				So(class, ShouldEqual, "failing")
			})

			Convey("The stranded copy's gene records its alternate contig", func() {
				db, err := sql.Open("sqlite", evalDB)
				So(err, ShouldBeNil)
				defer db.Close()
				var alt string
				So(db.QueryRow(`SELECT GeneAlternateContigs FROM transmap_filter WHERE AlignmentId = 'tx6-1'`).Scan(&alt), ShouldBeNil)
				So(alt, ShouldEqual, "chr3")
			})

			Convey("Metrics land on disk as json", func() {
				raw, err := os.ReadFile(metricsOut)
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, "Split Genes")
			})
		})
	})

	Convey("When split genes are surveyed but not removed", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			refDB := filepath.Join(tmpDir, "ref.db")
			evalDB := filepath.Join(tmpDir, "chimp.db")
			tmGp := filepath.Join(tmpDir, "chimp.tm.gp")
			outGp := filepath.Join(tmpDir, "chimp.filtered.gp")

			buildRefDB(refDB, map[string]string{"tx6": "g6", "tx7": "g6"})
			buildEvalDB(evalDB, []evalFixture{
				{"tx6-1", "tx6", 95, 100, 1, 6},
				{"tx7-1", "tx7", 95, 100, 1, 0},
			})
			gp := gpRow("tx6-1", "chr1", 5000, 6000) + "\n" + gpRow("tx7-1", "chr3", 100, 500) + "\n"
			So(os.WriteFile(tmGp, []byte(gp), 0644), ShouldBeNil)

			metrics := Filter(Options{
				TmGp: tmGp, RefDB: refDB, DB: evalDB,
				Genome: "chimp", ResolveSplitGenes: false, OutGp: outGp,
			}, quietLog())

			So(metrics.SplitGenes.ContigSplitGenes, ShouldEqual, 1)
			So(metrics.SplitGenes.TranscriptsRemoved, ShouldEqual, 0)
			out, _ := os.ReadFile(outGp)
			So(strings.Count(string(out), "\n"), ShouldEqual, 2) // both rows survive
		})
	})

	Convey("An alignment naming an unknown reference transcript is an InputError", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			refDB := filepath.Join(tmpDir, "ref.db")
			evalDB := filepath.Join(tmpDir, "chimp.db")
			tmGp := filepath.Join(tmpDir, "chimp.tm.gp")

			buildRefDB(refDB, map[string]string{"tx1": "g1"})
			buildEvalDB(evalDB, []evalFixture{{"ghost-1", "ghost", 95, 100, 1, 6}})
			So(os.WriteFile(tmGp, []byte(gpRow("ghost-1", "chr1", 0, 10)+"\n"), 0644), ShouldBeNil)

			So(func() {
				Filter(Options{TmGp: tmGp, RefDB: refDB, DB: evalDB, Genome: "chimp", OutGp: filepath.Join(tmpDir, "out.gp")}, quietLog())
			}, testutil.ShouldPanicWith, InputError)
		})
	})
}

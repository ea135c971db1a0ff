package genepred

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const chimpRow = "tx1-1\tchr1\t+\t100\t900\t150\t850\t3\t100,300,700,\t200,500,900,\t0\tgene1\tcmpl\tcmpl\t0,2,1,"

func TestParse(t *testing.T) {
	Convey("Given an extended genePred row", t, func() {
		txs, err := Parse(strings.NewReader(chimpRow + "\n"))
		So(err, ShouldBeNil)
		So(txs, ShouldHaveLength, 1)
		tx := txs[0]

		Convey("All coordinate fields should land", func() {
			So(tx.Name, ShouldEqual, "tx1-1")
			So(tx.Chrom, ShouldEqual, "chr1")
			So(tx.Strand, ShouldEqual, '+')
			So(tx.TxStart, ShouldEqual, 100)
			So(tx.TxEnd, ShouldEqual, 900)
			So(tx.Exons, ShouldResemble, []Interval{
				{"chr1", 100, 200}, {"chr1", 300, 500}, {"chr1", 700, 900},
			})
			So(tx.Name2, ShouldEqual, "gene1")
			So(tx.ExonFrames, ShouldResemble, []int{0, 2, 1})
		})

		Convey("Cds-clipped exons should drop the UTRs", func() {
			So(tx.Coding(), ShouldBeTrue)
			So(tx.CdsExons(), ShouldResemble, []Interval{
				{"chr1", 150, 200}, {"chr1", 300, 500}, {"chr1", 700, 850},
			})
		})

		Convey("Row should round-trip", func() {
			reparsed, err := Parse(strings.NewReader(tx.Row()))
			So(err, ShouldBeNil)
			So(reparsed[0], ShouldResemble, tx)
		})
	})

	Convey("Comments and blank lines are skipped", t, func() {
		txs, err := Parse(strings.NewReader("# header\n\n" + chimpRow + "\n"))
		So(err, ShouldBeNil)
		So(txs, ShouldHaveLength, 1)
	})

	Convey("Malformed rows name their line", t, func() {
		_, err := Parse(strings.NewReader(chimpRow + "\nnot\ta\tgenepred\n"))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "line 2")
	})

	Convey("Exon count must match the exon lists", t, func() {
		bad := "tx\tchr1\t+\t0\t10\t0\t10\t2\t0,\t10,\t0\tg\tcmpl\tcmpl\t0,"
		_, err := Parse(strings.NewReader(bad))
		So(err, ShouldNotBeNil)
	})

	Convey("Non-coding rows have equal cds bounds and no cds exons", t, func() {
		nc := "nc1\tchr2\t-\t50\t200\t200\t200\t1\t50,\t200,\t0\tgene2\tnone\tnone\t-1,"
		txs, err := Parse(strings.NewReader(nc))
		So(err, ShouldBeNil)
		So(txs[0].Coding(), ShouldBeFalse)
		So(txs[0].CdsExons(), ShouldBeNil)
	})
}

func TestGapMerge(t *testing.T) {
	Convey("GapMerge clusters overlapping and adjacent spans", t, func() {
		ivs := []Interval{
			{"chr1", 100, 200},
			{"chr1", 150, 300},
			{"chr1", 320, 400},
			{"chr2", 100, 200},
		}
		Convey("With zero gap, touching is not enough", func() {
			So(GapMerge(ivs, 0), ShouldResemble, []Interval{
				{"chr1", 100, 300}, {"chr1", 320, 400}, {"chr2", 100, 200},
			})
		})
		Convey("A gap allowance closes small holes", func() {
			So(GapMerge(ivs, 20), ShouldResemble, []Interval{
				{"chr1", 100, 400}, {"chr2", 100, 200},
			})
		})
		Convey("Different chroms never merge", func() {
			merged := GapMerge(ivs, 1<<30)
			So(merged, ShouldHaveLength, 2)
		})
	})
}

func TestParseAttrs(t *testing.T) {
	table := strings.Join([]string{
		"transcript_id\tgene_id\tgene_name\tgene_biotype\ttranscript_biotype",
		"tx1\tgene1\tGENE1\tprotein_coding\tprotein_coding",
		"tx2\tgene1\tGENE1\tprotein_coding\tNone",
	}, "\n")

	Convey("Given a gp_info table", t, func() {
		attrs, err := ParseAttrs(strings.NewReader(table))
		So(err, ShouldBeNil)

		Convey("Lookups by transcript and column work", func() {
			So(attrs.Get("tx1", "gene_name"), ShouldEqual, "GENE1")
			So(attrs.Get("tx2", "gene_id"), ShouldEqual, "gene1")
		})

		Convey("'None' reads back as empty", func() {
			So(attrs.Get("tx2", "transcript_biotype"), ShouldEqual, "")
		})

		Convey("Unknown transcripts read back as empty", func() {
			So(attrs.Get("nope", "gene_id"), ShouldEqual, "")
		})
	})

	Convey("Ragged rows are rejected", t, func() {
		_, err := ParseAttrs(strings.NewReader("a\tb\nonly-one-field"))
		So(err, ShouldNotBeNil)
	})
}

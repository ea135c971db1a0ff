package ncbisubmit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/jasongallant/Comparative-Annotation-Toolkit/testutil"
)

var gpFixture = strings.Join([]string{
	"tx1-1\tchr1\t+\t100\t900\t150\t850\t3\t100,300,700,\t200,500,900,\t0\tgene1\tcmpl\tcmpl\t0,2,1,",
	"tx1-2\tchr1\t+\t100\t500\t150\t500\t2\t100,300,\t200,500,\t0\tgene1\tcmpl\tincmpl\t0,2,",
	"nc1\tchr2\t-\t50\t200\t200\t200\t1\t50,\t200,\t0\tgene2\tnone\tnone\t-1,",
}, "\n") + "\n"

var infoFixture = strings.Join([]string{
	"transcript_id\tgene_id\tgene_name\tgene_biotype\ttranscript_biotype\ttranscript_name",
	"tx1-1\tgene1\tGENE1\tprotein_coding\tprotein_coding\tGENE1-201",
	"tx1-2\tgene1\tGENE1\tprotein_coding\tprotein_coding\tGENE1-202",
	"nc1\tgene2\tLINC1\tlncRNA\tlncRNA\tLINC1-201",
}, "\n") + "\n"

var expectedTable = strings.Join([]string{
	">Feature chr1",
	"101\t>900\tgene",
	"\t\t\tgene\tGENE1",
	"\t\t\tlocus_tag\tfred_1",
	"101\t200\tmRNA",
	"301\t500",
	"701\t900",
	"\t\t\tproduct\tGENE1-201",
	"\t\t\tprotein_id\tgnl|fred|tx1-1.p",
	"\t\t\ttranscript_id\tgnl|fred|tx1-1",
	"151\t200\tCDS",
	"301\t500",
	"701\t850",
	"\t\t\tproduct\tGENE1-201",
	"\t\t\tprotein_id\tgnl|fred|tx1-1.p",
	"\t\t\ttranscript_id\tgnl|fred|tx1-1",
	"101\t200\tmRNA",
	"301\t>500",
	"\t\t\tproduct\tGENE1-202",
	"\t\t\tprotein_id\tgnl|fred|tx1-2.p",
	"\t\t\ttranscript_id\tgnl|fred|tx1-2",
	"151\t200\tCDS",
	"301\t>500",
	"\t\t\tproduct\tGENE1-202",
	"\t\t\tprotein_id\tgnl|fred|tx1-2.p",
	"\t\t\ttranscript_id\tgnl|fred|tx1-2",
	">Feature chr2",
	"200\t51\tgene",
	"\t\t\tgene\tLINC1",
	"\t\t\tlocus_tag\tfred_2",
	"200\t51\tncRNA",
	"\t\t\tncRNA_class\tlncRNA",
	"\t\t\tproduct\tLINC1-201",
	"\t\t\tnote\tbiotype lncRNA",
}, "\n") + "\n"

func writeFixtures(dir string) (gp, info string) {
	gp = filepath.Join(dir, "chimp1.gp")
	info = filepath.Join(dir, "chimp1.gp_info")
	if err := os.WriteFile(gp, []byte(gpFixture), 0644); err != nil {
		panic(err)
	}
	if err := os.WriteFile(info, []byte(infoFixture), 0644); err != nil {
		panic(err)
	}
	return
}

func TestConvert(t *testing.T) {
	Convey("Converting the chimp fixture with token 'fred'", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			gp, info := writeFixtures(tmpDir)
			outPath := filepath.Join(tmpDir, "out.tbl")

			Convert(gp, info, "fred", outPath)

			Convey("should produce exactly the golden table", func() {
				got, err := os.ReadFile(outPath)
				So(err, ShouldBeNil)
				So(string(got), ShouldEqual, expectedTable)
			})

			Convey("and should be byte-stable across runs", func() {
				outPath2 := filepath.Join(tmpDir, "out2.tbl")
				Convert(gp, info, "fred", outPath2)
				got1, _ := os.ReadFile(outPath)
				got2, _ := os.ReadFile(outPath2)
				So(string(got2), ShouldEqual, string(got1))
			})
		})
	})

	Convey("A different token shifts every locus_tag and gnl namespace", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			gp, info := writeFixtures(tmpDir)
			outPath := filepath.Join(tmpDir, "out.tbl")
			Convert(gp, info, "wilma", outPath)
			got, err := os.ReadFile(outPath)
			So(err, ShouldBeNil)
			So(string(got), ShouldContainSubstring, "locus_tag\twilma_1")
			So(string(got), ShouldContainSubstring, "gnl|wilma|tx1-1")
			So(string(got), ShouldNotContainSubstring, "fred")
		})
	})

	Convey("Unreadable inputs raise InputError", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			So(func() {
				Convert(filepath.Join(tmpDir, "nope.gp"), filepath.Join(tmpDir, "nope.gp_info"), "fred", filepath.Join(tmpDir, "out.tbl"))
			}, testutil.ShouldPanicWith, InputError)
		})
	})

	Convey("A transcript with no gene id in either input raises MismatchError", t, func() {
		testutil.WithTmpdir(func(tmpDir string) {
			gp := filepath.Join(tmpDir, "orphan.gp")
			info := filepath.Join(tmpDir, "orphan.gp_info")
			// empty name2, and the attrs row is for some other transcript.
			So(os.WriteFile(gp, []byte("orphan\tchr1\t+\t0\t10\t0\t10\t1\t0,\t10,\t0\t\tcmpl\tcmpl\t0,\n"), 0644), ShouldBeNil)
			So(os.WriteFile(info, []byte("transcript_id\tgene_id\nother\tg9\n"), 0644), ShouldBeNil)
			So(func() {
				Convert(gp, info, "fred", filepath.Join(tmpDir, "out.tbl"))
			}, testutil.ShouldPanicWith, MismatchError)
		})
	})
}

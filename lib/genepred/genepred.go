/*
	Package genepred parses UCSC genePred annotation tables.

	Both the basic 12-column format and the extended 15-column format
	(with cds completeness stats and exon frames) are accepted; rows are
	tab-separated, coordinates are 0-based half-open, and exon lists are
	comma-separated with a trailing comma, all per the UCSC table spec.
*/
package genepred

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Interval is a 0-based half-open span on a named sequence.
type Interval struct {
	Chrom string
	Start int
	End   int
}

func (i Interval) Len() int {
	return i.End - i.Start
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Chrom == o.Chrom && i.Start < o.End && o.Start < i.End
}

/*
	Merges intervals that overlap, or whose gap is at most `gap` bases,
	into single spans.  Input order does not matter; output is sorted by
	(chrom, start).  Intervals on different chroms never merge.
*/
func GapMerge(intervals []Interval, gap int) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Chrom != sorted[j].Chrom {
			return sorted[i].Chrom < sorted[j].Chrom
		}
		return sorted[i].Start < sorted[j].Start
	})
	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Chrom == last.Chrom && iv.Start <= last.End+gap {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

/*
	Transcript is one genePred row: a transcript model placed on a
	chromosome, with its exon structure and coding span.
*/
type Transcript struct {
	Name     string // transcript (or alignment) identifier.
	Chrom    string
	Strand   byte // '+' or '-'.
	TxStart  int
	TxEnd    int
	CdsStart int
	CdsEnd   int
	Exons    []Interval // ascending by start, regardless of strand.

	// extended genePred fields; zero values when parsed from 12 columns.
	Score        int
	Name2        string // gene identifier.
	CdsStartStat string // "none", "unk", "incmpl", or "cmpl".
	CdsEndStat   string
	ExonFrames   []int
}

func (t *Transcript) Interval() Interval {
	return Interval{t.Chrom, t.TxStart, t.TxEnd}
}

// Coding reports whether the row carries a CDS at all.
func (t *Transcript) Coding() bool {
	return t.CdsStart < t.CdsEnd
}

/*
	CdsExons returns the exon spans clipped to the coding region,
	ascending.  Empty for non-coding transcripts.
*/
func (t *Transcript) CdsExons() []Interval {
	if !t.Coding() {
		return nil
	}
	var r []Interval
	for _, ex := range t.Exons {
		start, end := ex.Start, ex.End
		if start < t.CdsStart {
			start = t.CdsStart
		}
		if end > t.CdsEnd {
			end = t.CdsEnd
		}
		if start < end {
			r = append(r, Interval{t.Chrom, start, end})
		}
	}
	return r
}

/*
	Row renders the transcript back into its tab-separated genePred form,
	always in the extended 15-column flavor.
*/
func (t *Transcript) Row() string {
	starts := make([]string, len(t.Exons))
	ends := make([]string, len(t.Exons))
	for i, ex := range t.Exons {
		starts[i] = strconv.Itoa(ex.Start)
		ends[i] = strconv.Itoa(ex.End)
	}
	frames := make([]string, len(t.ExonFrames))
	for i, f := range t.ExonFrames {
		frames[i] = strconv.Itoa(f)
	}
	cdsStartStat, cdsEndStat := t.CdsStartStat, t.CdsEndStat
	if cdsStartStat == "" {
		cdsStartStat = "unk"
	}
	if cdsEndStat == "" {
		cdsEndStat = "unk"
	}
	if len(frames) == 0 {
		frames = make([]string, len(t.Exons))
		for i := range frames {
			frames[i] = "-1"
		}
	}
	return strings.Join([]string{
		t.Name,
		t.Chrom,
		string(t.Strand),
		strconv.Itoa(t.TxStart),
		strconv.Itoa(t.TxEnd),
		strconv.Itoa(t.CdsStart),
		strconv.Itoa(t.CdsEnd),
		strconv.Itoa(len(t.Exons)),
		strings.Join(starts, ",") + ",",
		strings.Join(ends, ",") + ",",
		strconv.Itoa(t.Score),
		t.Name2,
		cdsStartStat,
		cdsEndStat,
		strings.Join(frames, ",") + ",",
	}, "\t")
}

/*
	Parse reads genePred rows until EOF.  Blank lines and lines starting
	with '#' are skipped.  Any malformed row aborts the parse with an
	error naming the line number.
*/
func Parse(r io.Reader) ([]*Transcript, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var txs []*Transcript
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tx, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("genePred line %d: %w", lineNo, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

// ParseFile is Parse over the contents of the named file.
func ParseFile(path string) ([]*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	txs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

func parseRow(line string) (*Transcript, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 12 && len(fields) != 15 {
		return nil, fmt.Errorf("expected 12 or 15 columns, got %d", len(fields))
	}
	tx := &Transcript{
		Name:  fields[0],
		Chrom: fields[1],
	}
	switch fields[2] {
	case "+", "-":
		tx.Strand = fields[2][0]
	default:
		return nil, fmt.Errorf("bad strand %q", fields[2])
	}
	var err error
	if tx.TxStart, err = strconv.Atoi(fields[3]); err != nil {
		return nil, fmt.Errorf("bad txStart: %w", err)
	}
	if tx.TxEnd, err = strconv.Atoi(fields[4]); err != nil {
		return nil, fmt.Errorf("bad txEnd: %w", err)
	}
	if tx.CdsStart, err = strconv.Atoi(fields[5]); err != nil {
		return nil, fmt.Errorf("bad cdsStart: %w", err)
	}
	if tx.CdsEnd, err = strconv.Atoi(fields[6]); err != nil {
		return nil, fmt.Errorf("bad cdsEnd: %w", err)
	}
	exonCount, err := strconv.Atoi(fields[7])
	if err != nil {
		return nil, fmt.Errorf("bad exonCount: %w", err)
	}
	starts, err := parseIntList(fields[8])
	if err != nil {
		return nil, fmt.Errorf("bad exonStarts: %w", err)
	}
	ends, err := parseIntList(fields[9])
	if err != nil {
		return nil, fmt.Errorf("bad exonEnds: %w", err)
	}
	if len(starts) != exonCount || len(ends) != exonCount {
		return nil, fmt.Errorf("exonCount %d does not match exon lists (%d starts, %d ends)", exonCount, len(starts), len(ends))
	}
	for i := 0; i < exonCount; i++ {
		if starts[i] >= ends[i] {
			return nil, fmt.Errorf("exon %d is empty or inverted", i)
		}
		tx.Exons = append(tx.Exons, Interval{tx.Chrom, starts[i], ends[i]})
	}
	if tx.TxStart > tx.TxEnd || tx.CdsStart > tx.CdsEnd {
		return nil, fmt.Errorf("inverted transcript or cds span")
	}
	if len(fields) == 15 {
		if tx.Score, err = strconv.Atoi(fields[10]); err != nil {
			return nil, fmt.Errorf("bad score: %w", err)
		}
		tx.Name2 = fields[11]
		tx.CdsStartStat = fields[12]
		tx.CdsEndStat = fields[13]
		if tx.ExonFrames, err = parseIntList(fields[14]); err != nil {
			return nil, fmt.Errorf("bad exonFrames: %w", err)
		}
		if len(tx.ExonFrames) != exonCount {
			return nil, fmt.Errorf("exonFrames does not match exonCount")
		}
	}
	return tx, nil
}

func parseIntList(s string) ([]int, error) {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	r := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		r[i] = n
	}
	return r, nil
}

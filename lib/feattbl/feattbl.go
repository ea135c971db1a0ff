/*
	Package feattbl writes NCBI 5-column feature tables (the ".tbl" files
	consumed by table2asn and tbl2asn).

	The format is line-oriented and tab-separated: a `>Feature <seqid>`
	line opens each sequence, a feature opens with `<start>\t<end>\t<key>`,
	continuation intervals repeat start/end with no key, and qualifiers
	indent three tabs.  Coordinates are 1-based inclusive and given in
	biological orientation (start > end on the minus strand); a '<' or '>'
	marker in front of a coordinate flags a partial feature end.
*/
package feattbl

import (
	"bufio"
	"io"
	"strconv"
)

type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Sequence opens a new `>Feature` block.
func (w *Writer) Sequence(seqID string) {
	w.writeString(">Feature " + seqID + "\n")
}

/*
	Feature opens a feature with its first interval and key, e.g.
	`100\t200\tgene`.  Partial flags attach '<' to the first coordinate
	and '>' to the second.
*/
func (w *Writer) Feature(start, end int, key string, partialStart, partialEnd bool) {
	w.interval(start, end, partialStart, partialEnd)
	w.writeString("\t" + key + "\n")
}

// Segment adds a continuation interval to the currently open feature.
func (w *Writer) Segment(start, end int, partialStart, partialEnd bool) {
	w.interval(start, end, partialStart, partialEnd)
	w.writeString("\n")
}

// Qualifier attaches a `name value` qualifier to the currently open feature.
func (w *Writer) Qualifier(name, value string) {
	w.writeString("\t\t\t" + name + "\t" + value + "\n")
}

func (w *Writer) interval(start, end int, partialStart, partialEnd bool) {
	s := ""
	if partialStart {
		s = "<"
	}
	s += strconv.Itoa(start) + "\t"
	if partialEnd {
		s += ">"
	}
	s += strconv.Itoa(end)
	w.writeString(s)
}

func (w *Writer) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(s)
}

// Flush drains the buffer and reports the first error hit, if any.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

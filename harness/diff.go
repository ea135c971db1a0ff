package harness

import (
	"fmt"
	"strings"
)

/*
	Divergence points at the first place two files stop agreeing.
	Line numbers are 1-based; an empty side means that file ran out.
*/
type Divergence struct {
	Line     int
	Got      string
	Expected string
}

func (d *Divergence) String() string {
	return fmt.Sprintf("line %d:\n-%s\n+%s", d.Line, d.Expected, d.Got)
}

/*
	DiffLines compares two texts line by line and returns the first
	divergence, or nil when they match.  This stands in for the `diff`
	call the old test Makefile made, with the useful part of its output
	kept and the rest dropped.
*/
func DiffLines(got, expected string) *Divergence {
	gotLines := strings.Split(got, "\n")
	expLines := strings.Split(expected, "\n")
	n := len(gotLines)
	if len(expLines) > n {
		n = len(expLines)
	}
	for i := 0; i < n; i++ {
		var g, e string
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if i < len(expLines) {
			e = expLines[i]
		}
		if g != e {
			return &Divergence{Line: i + 1, Got: g, Expected: e}
		}
	}
	return nil
}

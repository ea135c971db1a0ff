package genepred

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

/*
	Attrs carries the `.gp_info` sidecar table: one row of free-form
	attributes per transcript, keyed by the header line.  The first
	column is always the transcript identifier.
*/
type Attrs struct {
	Columns []string                     // header, in file order.
	Rows    map[string]map[string]string // transcript id -> column -> value.
}

func (a *Attrs) Get(txID, column string) string {
	row, ok := a.Rows[txID]
	if !ok {
		return ""
	}
	return row[column]
}

/*
	ParseAttrs reads a tab-separated attributes table with a header line.
	Every data row must have exactly as many fields as the header.
	Values of "None" (the upstream table writer's spelling of null) are
	normalized to the empty string.
*/
func ParseAttrs(r io.Reader) (*Attrs, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("attributes table is empty")
	}
	header := strings.Split(scanner.Text(), "\t")
	if len(header) < 2 {
		return nil, fmt.Errorf("attributes table header needs at least an id column and one attribute")
	}
	attrs := &Attrs{
		Columns: header,
		Rows:    map[string]map[string]string{},
	}
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("attributes line %d: expected %d columns, got %d", lineNo, len(header), len(fields))
		}
		row := make(map[string]string, len(header)-1)
		for i := 1; i < len(fields); i++ {
			v := fields[i]
			if v == "None" {
				v = ""
			}
			row[header[i]] = v
		}
		attrs.Rows[fields[0]] = row
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return attrs, nil
}

// ParseAttrsFile is ParseAttrs over the contents of the named file.
func ParseAttrsFile(path string) (*Attrs, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	attrs, err := ParseAttrs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return attrs, nil
}

package atlas

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// lineReader hands out the descriptor one line at a time.
type lineReader struct {
	scanner *bufio.Scanner
	line    int
}

func newLineReader(r io.Reader) *lineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	return &lineReader{scanner: scanner}
}

// next returns the next line without its terminator, or errEndOfInput.
func (lr *lineReader) next() (string, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return "", err
		}
		return "", errEndOfInput
	}
	lr.line++
	return lr.scanner.Text(), nil
}

// afterColon returns the text following the first ':' of the next line.
func (lr *lineReader) afterColon() (string, error) {
	line, err := lr.next()
	if err != nil {
		return "", err
	}
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return "", &MalformedLineError{Line: lr.line, Text: line}
	}
	return line[colon+1:], nil
}

// readValue reads a "key: value" line and returns the trimmed value.
func (lr *lineReader) readValue() (string, error) {
	value, err := lr.afterColon()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// tuple holds up to four comma-separated fields of one line.
type tuple struct {
	n      int
	fields [4]string
	line   int
}

// readTuple reads a "key: a, b, c, d" line. At most three commas are
// honored, so any remaining text lands in the last field.
func (lr *lineReader) readTuple() (tuple, error) {
	rest, err := lr.afterColon()
	if err != nil {
		return tuple{}, err
	}
	t := tuple{line: lr.line}
	for t.n < 3 {
		comma := strings.IndexByte(rest, ',')
		if comma < 0 {
			break
		}
		t.fields[t.n] = strings.TrimSpace(rest[:comma])
		t.n++
		rest = rest[comma+1:]
	}
	t.fields[t.n] = strings.TrimSpace(rest)
	t.n++
	return t, nil
}

// intAt parses field i as an integer. Fields the line did not supply are
// empty and fail to parse.
func (t tuple) intAt(i int) (int, error) {
	return parseInt(t.fields[i], t.line)
}

// ints parses all four fields, as used by split and pad insets.
func (t tuple) ints() ([]int, error) {
	out := make([]int, 4)
	for i := range out {
		v, err := t.intAt(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseInt(s string, line int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &NumericParseError{Value: s, Line: line, Err: err}
	}
	return v, nil
}

func parseBool(s string, line int) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, &NumericParseError{Value: s, Line: line, Err: strconv.ErrSyntax}
}

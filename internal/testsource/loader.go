package testsource

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/roach88/mutest/internal/ir"
)

// FieldDelimiter separates the expression from the expected output.
const FieldDelimiter = "\t"

// maxLineBytes bounds a single source line. Expressions can be long
// (quoted data, nested forms), so the bufio default of 64KiB is raised.
const maxLineBytes = 1 << 20

// Load returns a lazy sequence of test cases read from r.
//
// Each yielded pair is either a TestCase and nil, or a zero TestCase and an
// error. *MalformedTestCase errors are recoverable and the sequence continues;
// any other error is the last value yielded.
func Load(r io.Reader, namespace, group string) iter.Seq2[ir.TestCase, error] {
	return func(yield func(ir.TestCase, error) bool) {
		for line, text := range lines(r) {
			if line < 0 {
				yield(ir.TestCase{}, fmt.Errorf("read %s/%s: %s", namespace, group, text))
				return
			}
			if strings.TrimSpace(text) == "" {
				continue
			}

			fields := strings.Split(text, FieldDelimiter)
			if len(fields) != 2 {
				err := &MalformedTestCase{
					Namespace: namespace,
					Group:     group,
					Line:      line,
					Raw:       text,
					Fields:    len(fields),
				}
				if !yield(ir.TestCase{}, err) {
					return
				}
				continue
			}

			tc := ir.TestCase{
				Namespace:  namespace,
				Group:      group,
				Expression: fields[0],
				Expected:   fields[1],
				SourceLine: line,
			}
			if !yield(tc, nil) {
				return
			}
		}
	}
}

// LoadFile is Load over the file at path. A missing or unreadable file is
// yielded as a single error.
func LoadFile(path, namespace, group string) iter.Seq2[ir.TestCase, error] {
	return func(yield func(ir.TestCase, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(ir.TestCase{}, fmt.Errorf("open test source: %w", err))
			return
		}
		defer f.Close()

		for tc, err := range Load(f, namespace, group) {
			if !yield(tc, err) {
				return
			}
		}
	}
}

// LoadExpressions returns a lazy sequence of benchmark cases read from r.
// Each non-empty line is one expression; Expected is left empty.
func LoadExpressions(r io.Reader, namespace, group string) iter.Seq2[ir.TestCase, error] {
	return func(yield func(ir.TestCase, error) bool) {
		for line, text := range lines(r) {
			if line < 0 {
				yield(ir.TestCase{}, fmt.Errorf("read %s/%s: %s", namespace, group, text))
				return
			}
			if strings.TrimSpace(text) == "" {
				continue
			}

			expr, _, _ := strings.Cut(text, FieldDelimiter)
			tc := ir.TestCase{
				Namespace:  namespace,
				Group:      group,
				Expression: expr,
				SourceLine: line,
			}
			if !yield(tc, nil) {
				return
			}
		}
	}
}

// Collect drains a sequence, separating valid cases from malformed lines.
// The first non-malformed error stops collection and is returned.
func Collect(seq iter.Seq2[ir.TestCase, error]) ([]ir.TestCase, []*MalformedTestCase, error) {
	var cases []ir.TestCase
	var malformed []*MalformedTestCase
	for tc, err := range seq {
		if err != nil {
			if me, ok := err.(*MalformedTestCase); ok {
				malformed = append(malformed, me)
				continue
			}
			return cases, malformed, err
		}
		cases = append(cases, tc)
	}
	return cases, malformed, nil
}

// lines yields (1-based line number, text) for each line of r with the line
// terminator removed. A read error is yielded once as (-1, message).
func lines(r io.Reader) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

		n := 0
		for scanner.Scan() {
			n++
			if !yield(n, strings.TrimSuffix(scanner.Text(), "\r")) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(-1, err.Error())
		}
	}
}

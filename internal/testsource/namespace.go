package testsource

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/mutest/internal/ir"
)

// GroupListing is the file inside a namespace directory that lists its groups.
const GroupListing = "tests"

// Namespace locates the test sources of one namespace on disk:
// <Base>/<Name>/tests lists the groups, <Base>/<Name>/<group> holds each source.
type Namespace struct {
	Name string
	Base string
}

// Dir returns the namespace directory.
func (ns Namespace) Dir() string {
	return filepath.Join(ns.Base, ns.Name)
}

// GroupPath returns the path of a group's test source.
func (ns Namespace) GroupPath(group string) string {
	return filepath.Join(ns.Dir(), group)
}

// Groups reads the group listing of the namespace.
func (ns Namespace) Groups() ([]string, error) {
	path := filepath.Join(ns.Dir(), GroupListing)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open group listing: %w", err)
	}
	defer f.Close()

	groups, err := ReadGroups(f)
	if err != nil {
		return nil, fmt.Errorf("read group listing %s: %w", path, err)
	}
	return groups, nil
}

// Load returns the test cases of one group.
func (ns Namespace) Load(group string) iter.Seq2[ir.TestCase, error] {
	return LoadFile(ns.GroupPath(group), ns.Name, group)
}

// LoadExpressions returns the benchmark cases of one group.
func (ns Namespace) LoadExpressions(group string) iter.Seq2[ir.TestCase, error] {
	return func(yield func(ir.TestCase, error) bool) {
		rc, err := ns.Open(group)
		if err != nil {
			yield(ir.TestCase{}, err)
			return
		}
		defer rc.Close()

		for tc, err := range LoadExpressions(rc, ns.Name, group) {
			if !yield(tc, err) {
				return
			}
		}
	}
}

// ReadGroups parses a group listing: one file name per non-empty line.
func ReadGroups(r io.Reader) ([]string, error) {
	var groups []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		groups = append(groups, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}

// Open opens a group's source file for reading.
func (ns Namespace) Open(group string) (io.ReadCloser, error) {
	f, err := os.Open(ns.GroupPath(group))
	if err != nil {
		return nil, fmt.Errorf("open group %s/%s: %w", ns.Name, group, err)
	}
	return f, nil
}

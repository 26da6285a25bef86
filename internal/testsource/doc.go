// Package testsource loads declarative test cases from line-oriented files.
//
// # File Formats
//
// A test source holds one test case per line, two TAB-separated fields:
//
//	(mu:add 1 2)	3
//	(mu:car '(1 2))	1
//
// A group listing ("tests" inside a namespace directory) names one test source
// per line:
//
//	fixnum
//	list
//
// A benchmark source holds one expression per line. When a benchmark line has
// TAB-separated fields only the first is used, so test sources double as
// benchmark sources.
//
// # Partial Failure
//
// Loading is lazy and never aborts on a bad line: a line that does not split
// into exactly two fields is yielded as a *MalformedTestCase error and the
// sequence continues. Only I/O errors end the sequence early.
package testsource

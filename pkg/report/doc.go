// Package report collects the outcome of every link task in a run.
//
// A Report is safe for concurrent use: workers call Add as tasks finish and
// Records returns them re-sorted into plan order, so a parallel run lists
// its results exactly like a serial one.
package report

// Package filesystem provides filesystem implementations for rodeo.
//
// This package contains the OS-backed implementation of the types.FS
// interface and a counting wrapper used to verify that a run performed no
// writes.
package filesystem

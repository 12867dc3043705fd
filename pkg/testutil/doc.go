// Package testutil provides utilities for testing rodeo components.
//
// Key components:
//   - MemoryFS: in-memory types.FS with per-operation error injection and a
//     write counter, for exercising failure paths without root privileges
//   - Fixture helpers (CreateFile, CreateDir, CreateSymlink) for tests that
//     run against a real t.TempDir()
//   - Assertions on link state (AssertSymlinkTo, AssertRegularFile)
package testutil

// Package executor applies a link plan to the filesystem.
//
// Each task is handled on its own: the parent directory is created, then the
// link is created or atomically replaced. Regular files are never touched,
// and every per-task failure is turned into a report record instead of
// aborting the run.
package executor

// Package types defines the core types and interfaces used throughout rodeo.
// This includes the declared model (Repository, Program), the derived link
// tasks with their on-disk classification (LinkTask, LinkState), the
// per-task Outcome, and the FS interface every filesystem access goes
// through.
package types

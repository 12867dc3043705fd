// Package planner turns the declared programs into an ordered list of link
// tasks and classifies what currently occupies each target.
//
// Planning is read-only: it only calls Lstat, Stat and Readlink, never lists
// directories, and produces the same plan for an unchanged filesystem.
package planner

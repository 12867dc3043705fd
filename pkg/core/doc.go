// Package core wires the rodeo pipeline together.
//
// A run goes through four stages, each owned by its own package:
//
//  1. config: load the file and resolve it into a Repository and Programs
//  2. planner: derive one LinkTask per declared path and classify its target
//  3. executor: reconcile every task and record its outcome in a Report
//  4. hooks: run post-deploy commands for programs whose links changed
//
// Core holds no state between runs. Every invocation rebuilds the plan from
// the configuration and the filesystem, so the filesystem itself is the only
// record of what was deployed.
package core

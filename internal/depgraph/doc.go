// Package depgraph models the "depends on" relation within one batch of tasks.
//
// An edge A -> B means task A depends on task B, so B blocks A. Only tasks
// that carry an id take part, and only dependencies naming an id present in
// the batch become edges; references to unknown ids are dropped silently.
//
// The graph answers three questions for the scorer:
//
//   - which dependency cycles exist ([Graph.DetectCycles])
//   - how many tasks are transitively blocked by a task ([Graph.BlockingCount])
//   - whether a task still waits on something ([Graph.HasUnmetDependencies])
//
// Cycle detection is advisory. It reports at most one cycle per DFS root and
// may miss cycles reachable only through nodes an earlier root already
// visited; callers surface the result as data and never reject a batch for it.
package depgraph

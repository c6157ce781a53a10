// Package processor owns the single active processor: the task currently
// executing and the idle context of the run loop. The run loop fetches the
// next ready task from the scheduler and switches into it; a task gives the
// processor back by switching into the idle context with Schedule.
package processor

// Package engine schedules unit cycles and drives the output line.
//
// This package is internal to ninebar. It owns one scheduling loop per
// unit task, a line-writer loop decoupled from every unit cadence, and the
// dispatch path that wakes a clicked unit early.
//
// The main components are:
//
//   - [Task]: one unit's scheduling identity and cycle closures
//   - [Scheduler]: runs all task loops plus the line writer
//
// Failure isolation is the scheduler's core duty: a task whose cycle
// returns an error or panics publishes a failure element for that round and
// is retried on its normal cadence. No unit-level failure propagates past
// the unit's own loop.
//
// Users of the ninebar library should not need to interact with this
// package directly. Configuration is done through the main ninebar package.
package engine

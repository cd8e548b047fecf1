// Package scoring computes points for track-order, winner-pick and multi-class
// event predictions.
//
// Every scorer is a pure function of its predictions, results and rules. No
// scorer performs I/O or keeps state between calls, so a run can be repeated
// with corrected results and the new output simply replaces the old one.
// Problems with individual records are reported as Issues on the result and
// never abort the run; only missing results abort with
// models.ErrMissingPrerequisite.
package scoring

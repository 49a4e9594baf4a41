// Package pipeline assembles point-cloud snapshots and reruns the minimal
// suffix of stages when a parameter changes.
//
// Stages run in dependency order:
//
//   - [StageSample]: candidate points (SampleCount, MaxRadius, Seed)
//   - [StageEvaluate]: amplitudes and the sorted density field (Selector)
//   - [StageFilter]: percentile cutoff and position buffer (Threshold)
//   - [StageColor]: color buffer (Mode, PositiveColor, NegativeColor)
//   - [StageDisplay]: renderer settings (PointSize, RotationRate)
//
// Changing a parameter invalidates its stage and everything after it. The
// [Orchestrator] keeps the upstream results and publishes each finished
// [Snapshot] atomically, so a render loop calling [Orchestrator.Snapshot]
// never observes partly built buffers.
//
// # Example
//
//	o, err := pipeline.New(pipeline.DefaultParams(), slog.Default())
//	if err != nil {
//	    return err
//	}
//	snap, err := o.SetMode(palette.Linear) // reruns color and display only
//
// # Thread Safety
//
// Orchestrator methods are safe for concurrent use. Recomputations are
// serialized; orientation updates never wait on a recomputation.
package pipeline

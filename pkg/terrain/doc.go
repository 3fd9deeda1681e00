// Package terrain holds the static ground truth of a map: which pixels are
// land, how land pixels group into landmasses, and how wide the water gaps
// between them are.
//
// A [Mask] is loaded once per map resolution and never mutated. [NewIndex]
// labels its 4-connected land components exactly once, after which
// [Index.NearestMajor] answers "where is the closest other big landmass"
// for overseas clone seeding. Barrier helpers ([Mask.MeasureBarrier],
// [Classifier], [Thresholds]) decide whether a growing region may cross a
// given gap.
//
// Everything in this package is read-only after construction and safe for
// concurrent readers.
package terrain

// Package rng provides the deterministic randomness used by the map engine.
//
// Two flavours are offered:
//
//   - [Source] is a seedable stream generator. It backs ownership tie-breaks,
//     where the stream is reseeded from the pixel coordinate and the turn seed
//     so that the same pixel always resolves to the same winner.
//   - [Hash], [Unit], [Signed] and [Noise] are keyed functions of
//     (seed, x, y, salt). They back growth jitter and corridor coin flips,
//     where the value must depend only on the pixel and never on the order in
//     which the frontier visits it.
//
// Nothing in this package reads global state, so identical inputs always
// produce identical outputs across runs and platforms.
package rng

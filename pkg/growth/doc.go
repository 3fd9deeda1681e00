// Package growth computes the pixels each area claims on the land mask.
//
// An [Engine] expands every area outward from its seed pixel over land,
// bounded by a radius that grows geometrically with the area's acc stat and
// linearly with the animation progress of the current turn:
//
//	radius = BaseRadius * Multiplier^(acc-1) * progress
//
// Expansion is a shortest-path search over the 8-connected pixel grid. A
// pixel is claimed when its path distance, perturbed by keyed per-pixel
// noise, stays within the radius. Because the noise is keyed by position
// rather than drawn in visiting order, the claimed set never depends on the
// order neighbours are examined, and a larger radius always claims a
// superset of a smaller one.
//
// # Barriers
//
// Water stops growth unless the area may cross it. When the search meets a
// water pixel it measures the gap along that direction and classifies it
// with a [terrain.Classifier]. If the area's acc clears the matching
// threshold, the pixel on the far shore becomes reachable at the measured
// gap distance, and narrow gaps additionally admit the water pixel itself
// with probability CorridorChance. Water pixels are never expanded from.
//
// # Clones
//
// Areas whose power exceeds ClonePowerThreshold also grow from the nearest
// pixel of another major landmass. The clone shares the area's stats and
// its pixels join the same [Overlay].
package growth

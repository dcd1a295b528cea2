// Package physics provides the 2-D gravitational body model and the local
// physics operations applied to it every frame:
//
//   - [Body]: massive disc with position, velocity, radius and trail
//   - [Trail]: bounded position history used for fading motion trails
//   - [Gravity]: pairwise force accumulation with a singularity guard
//   - [Collider]: pairwise overlap detection and elastic response
//   - [RadiusModel]: mass-to-radius derivation
//
// Vectors are gonum [r2.Vec] values. The arena is an [r2.Box] whose Min is
// the bottom-left corner and Max the top-right corner.
//
// # Guards
//
// Gravity never divides by a raw separation. With [GuardFloor] the scaled
// distance is clamped to MinDistance; with [GuardSoftening] Softening² is
// added to the squared distance. Bodies with coincident centres exert no
// force on each other since the direction between them is undefined.
//
// # Collisions
//
// [Collider.Resolve] exchanges velocities with the 1-D elastic formula
// applied to each axis independently rather than along the contact normal.
// It approximates a true 2-D elastic response.
package physics

// Package sim drives a set of gravitating bodies through time.
//
// A Simulation owns its bodies and advances them with Step. Each step
// computes gravity from a snapshot of positions, integrates, resolves
// collisions when enabled and reflects bodies at the arena walls, in that
// order. Metrics and observers are fed the resulting Frame.
//
// Run steps a Simulation headlessly with a fixed delta; Ensemble runs many
// seeded simulations concurrently. Clock supplies clamped wall-clock deltas
// for interactive use.
//
// A Simulation is not safe for concurrent use.
package sim

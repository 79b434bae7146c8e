// Package mag provides the core types for micromagnetic simulation of a
// 2-D chiral thin film:
//
//   - [Params]: physical and numerical configuration, validated once
//   - [VectorField]: an N×N grid of 3-component magnetization vectors
//   - [ScalarField]: an N×N scalar grid (anisotropy map, m_z slices)
//   - [State]: the single-owner mutable simulation state
//
// All length-like parameters are stored in meters. The grid is uniform
// and periodic; wraparound indexing is handled by the consumers of these
// types (field and energy evaluation), not by the types themselves.
//
// # Thread Safety
//
// State is owned by exactly one integration loop and is not safe for
// concurrent mutation. Per-site evaluation may be parallelized with
// [ParallelFor] since sites are written independently.
package mag

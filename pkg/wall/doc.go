// Package wall defines the data model shared by every wallplan planner.
//
// # Core Types
//
//   - [Wall]: a rectangular grid of base units with its electrical and
//     rigging context (voltage, rack location, deployment, IMAG role)
//   - [CabinetVariant]: a catalog entry for one cabinet model
//   - [WallCell]: one placed cabinet, or a void/cutout marker
//   - [ProcessorModel]: a video processor's port count and per-port budgets
//   - [Catalog]: variants and processors keyed by id
//   - [Optional]: an explicitly absent-or-present value
//
// # Coordinates
//
// Grid positions are in base units with (0,0) at the top-left. A cell at
// (UnitX, UnitY) with footprint UnitsWide×UnitsHigh covers columns
// [UnitX, UnitX+UnitsWide) and rows [UnitY, UnitY+UnitsHigh). Two cells
// overlap only when they share a unit; touching edges are fine.
//
// # Immutability
//
// Planners treat these values as immutable snapshots. Functions that edit a
// layout return a new slice (see [CloneCells]) and never write through the
// slice they were given.
package wall

// Package project attaches data-space and screen-space coordinates to every
// record of a chart's point, line and area layers.
//
// Projection runs in two steps so that a frame can rebuild its scales
// without rescanning the data:
//
//  1. [Prepare] resolves data-space coordinates through the accessors,
//     filling gaps inside lines by interpolation.
//  2. [Layers.Project] maps those coordinates through the x and y scales.
//
// # Y resolution
//
// The y position of a record follows one rule, shared with the annotation
// resolver through [Locator]:
//
//   - a record with its own y value uses it (or the middle of its band when
//     only top and bottom are known);
//   - a record that belongs to a line but has no y of its own is placed by
//     linear interpolation between the two line samples straddling its x.
//     Samples are inclusive; an x outside the sampled range is rejected;
//   - explicit coordinate lists are mapped vertex by vertex and offset by
//     the adjusted chart position ([Locator.Vertices]).
//
// Records whose coordinates cannot be resolved are kept in their layer with
// Valid set to false and never appear in [Layers.Full].
package project

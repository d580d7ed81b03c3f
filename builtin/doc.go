// Package builtin implements the minimal catalog of real filter.Filter
// types the CLI and end-to-end scenarios exercise: load, save, grayscale,
// brightness, gaussian_blur, resize. Each adapts a single-method
// Execute(ctx, img) (img, err) step shape to the three-method
// filter.Filter contract (Metadata, Validate, Execute) this module's
// graph store requires.
//
// Point-wise filters (grayscale, brightness) run through the tile
// package's zero-overlap PointWise helper; gaussian_blur supplies its own
// Transform with a non-zero SpatialExtent, exercising the tile
// substrate's overlap-read path. resize is whole-image and declares
// SupportsProgress=false, since a nearest-neighbor resample reads from
// everywhere in the source and cannot be decomposed into independent
// tiles.
package builtin

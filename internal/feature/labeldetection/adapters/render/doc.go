// Package render decodes fetched image bytes and draws detection overlays.
//
// Decoding always yields an opaque NRGBA image in stored pixel order. EXIF
// orientation is not applied, so boxes line up with the pixels the detector
// saw. Palette images are expanded and any alpha channel is discarded.
// Overlays are drawn on a copy; the decoded image itself is never modified.
//
// # Coordinates
//
// Pixel boxes keep their float precision until rasterization, where each edge
// is rounded to the nearest pixel. Boxes partly or wholly outside the image
// are drawn as far as they intersect it; nothing is clamped or rejected.
//
// # Presenters
//
// FilePresenter saves the composed image (format chosen by file extension),
// NopPresenter discards it, and Encoder streams it as PNG.
package render

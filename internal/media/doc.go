// Package media decodes, transforms and encodes raster images.
//
// Files are opened into a Handle, which owns a decoded raster and the format
// detected from the file content. Handles are resized through a Resizer
// backend (imaging, nfnt or libvips), rotated in quarter turns, and written
// back with Save, which replaces the target atomically. ThumbnailEncoder
// produces the base64 JPEG text the UI displays.
//
// Size planning is separate from resampling: PlanMaxEdge fits an image into
// a square bounding box and PlanFactor multiplies its dimensions.
package media

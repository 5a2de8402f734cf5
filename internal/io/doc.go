// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Writing files and JSON documents, creating directories on the way
//   - Mirroring a library path into an export tree
//   - Filename sanitization for cross-platform compatibility
//   - Cover art resizing and format conversion
//
// # File Operations
//
//	out, err := ioutils.MirrorPath(library, library+" Tags Only", track)
//	err = ioutils.WriteJSON(ctx, out+".json", record)
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Resize image to fit within 1000x1000
//	resized, _ := svc.ResizeImage(ctx, imageData, 1000, 1000)
//
//	// Convert to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, pngData)
package ioutils

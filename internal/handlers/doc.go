// Package handlers provides the JSON-over-HTTP API the desktop shell uses to
// drive the image pipeline.
//
// Read-only operations take their arguments from the query string; mutating
// and batch operations take a JSON body. Failures are returned as
// {"error": ..., "kind": ...} with a status derived from the error kind:
// 404 for missing files and directories, 400 for invalid parameters, 422 for
// undecodable images and 500 for I/O and encoding failures.
package handlers

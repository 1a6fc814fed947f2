// Command imgctl runs the image manager operations from a terminal.
//
// It drives the same pipeline as the HTTP backend without starting a server,
// which is convenient for scripting and for checking a directory by hand.
//
// Usage:
//
//	imgctl [-v] [-json] [-workers N] [-backend NAME] <command> [args]
//
// Commands:
//
//	list <dir>              List image files in dir, sorted.
//	entries <dir>           List every entry in dir, sorted.
//	thumb <dir> <name>      Print a base64 JPEG thumbnail. -size sets the
//	                        longest edge (default 256).
//	thumbs <dir> <name>...  Generate thumbnails in parallel. With -partial,
//	                        failures are reported per file instead of
//	                        aborting the batch.
//	rotate <dir> <name> <d> Rotate in place by 90 or -90 degrees.
//	upscale <dir> <name> <f>
//	                        Write an enlarged copy next to the original.
//	meta <dir> <name>       Show size, modification time and dimensions.
//	rename <dir> old=new... Apply renames in order. -file reads mappings from
//	                        a JSON array of {"old", "new"} objects.
//
// Output is plain text when stdout is a terminal and JSON otherwise; -json
// forces JSON. The exit status is 1 when an operation fails and 2 on usage
// errors.
package main

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"image-manager/internal/imgerr"
	"image-manager/internal/logging"
	"image-manager/internal/media"
	"image-manager/internal/processor"
	"image-manager/internal/rename"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage")

// cli carries the output streams and mode shared by every command.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	json   bool
	proc   *processor.Processor
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, term.IsTerminal(int(os.Stdout.Fd()))))
}

// run parses global flags, dispatches the command and returns the exit code.
// Output is human-readable when interactive, JSON otherwise.
func run(args []string, stdout, stderr io.Writer, interactive bool) int {
	fs := flag.NewFlagSet("imgctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	verbose := fs.Bool("v", false, "debug logging")
	jsonOut := fs.Bool("json", !interactive, "JSON output")
	workerCount := fs.Int("workers", 0, "batch thumbnail workers (0 = CPU count)")
	backend := fs.String("backend", media.BackendImaging, "resize backend: imaging, nfnt or vips")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() < 1 {
		printUsage(stderr)
		return exitUsage
	}

	if *verbose {
		logging.SetLevel(logging.LevelDebug)
	} else {
		logging.SetLevel(logging.LevelWarn)
	}

	if strings.EqualFold(strings.TrimSpace(*backend), media.BackendVips) {
		if err := media.InitVips(media.DefaultVipsConfig()); err != nil {
			fmt.Fprintf(stderr, "Warning: libvips unavailable, falling back to imaging: %v\n", err)
		}
		defer media.ShutdownVips()
	}

	cfg := processor.DefaultConfig()
	cfg.Workers = *workerCount
	cfg.ResizeBackend = *backend
	proc, err := processor.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	c := &cli{stdout: stdout, stderr: stderr, json: *jsonOut, proc: proc}

	command, rest := fs.Arg(0), fs.Args()[1:]
	var cmdErr error
	switch command {
	case "list":
		cmdErr = c.list(rest)
	case "entries":
		cmdErr = c.entries(rest)
	case "thumb":
		cmdErr = c.thumb(rest)
	case "thumbs":
		cmdErr = c.thumbs(rest)
	case "rotate":
		cmdErr = c.rotate(rest)
	case "upscale":
		cmdErr = c.upscale(rest)
	case "meta":
		cmdErr = c.meta(rest)
	case "rename":
		cmdErr = c.rename(rest)
	case "help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", sanitizeCommand(command))
		printUsage(stderr)
		return exitUsage
	}

	switch {
	case cmdErr == nil:
		return exitOK
	case errors.Is(cmdErr, errUsage):
		fmt.Fprintf(stderr, "Error: %v\n", cmdErr)
		return exitUsage
	default:
		c.fail(cmdErr)
		return exitFailure
	}
}

// sanitizeCommand returns a safe representation of a command string for display.
// It uses an allowlist approach, replacing any character that is not alphanumeric,
// a hyphen, or an underscore with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Image Manager CLI")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: imgctl [-v] [-json] [-workers N] [-backend NAME] <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list <dir>                         - List image files")
	fmt.Fprintln(w, "  entries <dir>                      - List every directory entry")
	fmt.Fprintln(w, "  thumb [-size N] <dir> <name>       - Print a base64 JPEG thumbnail")
	fmt.Fprintln(w, "  thumbs [-size N] [-partial] <dir> <name>...")
	fmt.Fprintln(w, "                                     - Generate thumbnails in parallel")
	fmt.Fprintln(w, "  rotate <dir> <name> <90|-90>       - Rotate an image in place")
	fmt.Fprintln(w, "  upscale <dir> <name> <factor>      - Write an enlarged copy")
	fmt.Fprintln(w, "  meta <dir> <name>                  - Show file and image metadata")
	fmt.Fprintln(w, "  rename [-file F] <dir> [old=new]... - Rename files in order")
}

// fail reports err on stderr, as JSON when requested.
func (c *cli) fail(err error) {
	if c.json {
		c.writeJSON(c.stderr, map[string]string{"error": err.Error(), "kind": imgerr.Kind(err)})
		return
	}
	fmt.Fprintf(c.stderr, "Error: %v\n", err)
}

func (c *cli) writeJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logging.Error("failed to encode JSON output: %v", err)
	}
}

func usageError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func (c *cli) list(args []string) error {
	if len(args) != 1 {
		return usageError("list <dir>")
	}
	names, err := c.proc.ListImages(args[0])
	if err != nil {
		return err
	}
	c.printNames(names)
	return nil
}

func (c *cli) entries(args []string) error {
	if len(args) != 1 {
		return usageError("entries <dir>")
	}
	names, err := c.proc.ListEntries(args[0])
	if err != nil {
		return err
	}
	c.printNames(names)
	return nil
}

func (c *cli) printNames(names []string) {
	if c.json {
		if names == nil {
			names = []string{}
		}
		c.writeJSON(c.stdout, names)
		return
	}
	for _, n := range names {
		fmt.Fprintln(c.stdout, n)
	}
}

func (c *cli) thumb(args []string) error {
	fs := flag.NewFlagSet("thumb", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	size := fs.Int("size", 256, "longest edge in pixels")
	if err := fs.Parse(args); err != nil {
		return usageError("thumb [-size N] <dir> <name>")
	}
	if fs.NArg() != 2 {
		return usageError("thumb [-size N] <dir> <name>")
	}

	thumb, err := c.proc.GenerateThumbnail(fs.Arg(0), fs.Arg(1), *size)
	if err != nil {
		return err
	}
	if c.json {
		c.writeJSON(c.stdout, map[string]string{"filename": fs.Arg(1), "thumbnail": thumb})
		return nil
	}
	fmt.Fprintln(c.stdout, thumb)
	return nil
}

func (c *cli) thumbs(args []string) error {
	fs := flag.NewFlagSet("thumbs", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	size := fs.Int("size", 256, "longest edge in pixels")
	partial := fs.Bool("partial", false, "report per-file failures instead of aborting")
	if err := fs.Parse(args); err != nil {
		return usageError("thumbs [-size N] [-partial] <dir> <name>...")
	}
	if fs.NArg() < 1 {
		return usageError("thumbs [-size N] [-partial] <dir> <name>...")
	}
	dir, names := fs.Arg(0), fs.Args()[1:]

	if *partial {
		outcomes, err := c.proc.GenerateThumbnailsPartial(dir, names, *size)
		if err != nil {
			return err
		}
		if c.json {
			c.writeJSON(c.stdout, outcomes)
			return nil
		}
		for _, o := range outcomes {
			if o.Data == nil {
				fmt.Fprintf(c.stdout, "%s\tFAILED\t%s\n", o.Filename, o.Error)
				continue
			}
			c.printThumbLine(*o.Data)
		}
		return nil
	}

	results, err := c.proc.GenerateThumbnailsBatch(dir, names, *size)
	if err != nil {
		return err
	}
	if c.json {
		if results == nil {
			results = []processor.ThumbnailData{}
		}
		c.writeJSON(c.stdout, results)
		return nil
	}
	for _, r := range results {
		c.printThumbLine(r)
	}
	return nil
}

func (c *cli) printThumbLine(d processor.ThumbnailData) {
	fmt.Fprintf(c.stdout, "%s\t%dx%d\t%d bytes\t%d base64 chars\n",
		d.Filename, d.Width, d.Height, d.FileSize, len(d.Thumbnail))
}

func (c *cli) rotate(args []string) error {
	if len(args) != 3 {
		return usageError("rotate <dir> <name> <90|-90>")
	}
	degrees, err := strconv.Atoi(args[2])
	if err != nil {
		return usageError("degrees must be an integer, got %q", args[2])
	}
	if err := c.proc.Rotate(args[0], args[1], degrees); err != nil {
		return err
	}
	if c.json {
		c.writeJSON(c.stdout, map[string]string{"status": "ok"})
		return nil
	}
	fmt.Fprintf(c.stdout, "Rotated %s by %d degrees\n", args[1], degrees)
	return nil
}

func (c *cli) upscale(args []string) error {
	if len(args) != 3 {
		return usageError("upscale <dir> <name> <factor>")
	}
	factor, err := strconv.Atoi(args[2])
	if err != nil {
		return usageError("factor must be an integer, got %q", args[2])
	}
	newName, err := c.proc.Upscale(args[0], args[1], factor)
	if err != nil {
		return err
	}
	if c.json {
		c.writeJSON(c.stdout, map[string]string{"filename": newName})
		return nil
	}
	fmt.Fprintf(c.stdout, "Wrote %s\n", newName)
	return nil
}

// metaKeys orders metadata for human output.
var metaKeys = []string{
	processor.KeyFileSize,
	processor.KeyModified,
	processor.KeyWidth,
	processor.KeyHeight,
	processor.KeyColorType,
	processor.KeyMimeType,
}

func (c *cli) meta(args []string) error {
	if len(args) != 2 {
		return usageError("meta <dir> <name>")
	}
	meta, err := c.proc.GetMetadata(args[0], args[1])
	if err != nil {
		return err
	}
	if c.json {
		c.writeJSON(c.stdout, meta)
		return nil
	}
	for _, k := range metaKeys {
		if v, ok := meta[k]; ok {
			fmt.Fprintf(c.stdout, "%-12s %s\n", k+":", v)
		}
	}
	return nil
}

func (c *cli) rename(args []string) error {
	fs := flag.NewFlagSet("rename", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	file := fs.String("file", "", `JSON file of [{"old": ..., "new": ...}] mappings`)
	if err := fs.Parse(args); err != nil {
		return usageError("rename [-file F] <dir> [old=new]...")
	}
	if fs.NArg() < 1 {
		return usageError("rename [-file F] <dir> [old=new]...")
	}

	var mappings []rename.Mapping
	if *file != "" {
		fromFile, err := readMappings(*file)
		if err != nil {
			return err
		}
		mappings = append(mappings, fromFile...)
	}
	for _, pair := range fs.Args()[1:] {
		oldName, newName, ok := strings.Cut(pair, "=")
		if !ok || oldName == "" || newName == "" {
			return usageError("mapping %q must be old=new", pair)
		}
		mappings = append(mappings, rename.Mapping{Old: oldName, New: newName})
	}

	outcomes, err := c.proc.RenameBatch(fs.Arg(0), mappings)
	if err != nil {
		return err
	}
	if c.json {
		c.writeJSON(c.stdout, outcomes)
		return nil
	}
	for _, o := range outcomes {
		fmt.Fprintln(c.stdout, o.String())
	}
	return nil
}

func readMappings(path string) ([]rename.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, imgerr.NotFound("mapping file not found: %s", path)
		}
		return nil, imgerr.IO("read mapping file", err)
	}
	var mappings []rename.Mapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, imgerr.Invalid("mapping file %s: %v", path, err)
	}
	return mappings, nil
}

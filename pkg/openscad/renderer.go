// Package openscad renders OpenSCAD sources to STL through the openscad
// binary and tracks the files a source depends on.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultBinary is the executable looked up in PATH
const DefaultBinary = "openscad"

// ErrNotInstalled is returned when the openscad binary cannot be found
var ErrNotInstalled = errors.New("openscad not found in PATH. Please install OpenSCAD from https://openscad.org/")

var (
	useRegex     = regexp.MustCompile(`^\s*use\s*<([^>]+)>`)
	includeRegex = regexp.MustCompile(`^\s*include\s*<([^>]+)>`)
	importRegex  = regexp.MustCompile(`\bimport\s*\(\s*(?:file\s*=\s*)?"([^"]+)"`)
)

// Renderer handles OpenSCAD file rendering to STL
type Renderer struct {
	workDir string
	binary  string
}

// NewRenderer creates a new OpenSCAD renderer
func NewRenderer(workDir string) *Renderer {
	return &Renderer{
		workDir: workDir,
		binary:  DefaultBinary,
	}
}

// WithBinary returns a copy of the renderer that runs the given executable
func (r *Renderer) WithBinary(binary string) *Renderer {
	c := *r
	c.binary = binary
	return &c
}

// IsSource reports whether path names an OpenSCAD source
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".scad")
}

// RenderTemp renders scadFile into a temporary binary STL. The returned
// cleanup removes it.
func (r *Renderer) RenderTemp(ctx context.Context, scadFile string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "stl2nec-scad-")
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	base := strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))
	out := filepath.Join(dir, base+".stl")
	if err := r.RenderToSTL(ctx, scadFile, out); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return out, cleanup, nil
}

// RenderToSTL renders an OpenSCAD file to STL format. The openscad process
// is killed when ctx is cancelled.
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	absScadFile := r.abs(scadFile)

	if _, err := exec.LookPath(r.binary); err != nil {
		return ErrNotInstalled
	}

	cmd := exec.CommandContext(ctx, r.binary, "--export-format", "binstl", "-o", outputFile, absScadFile)
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// If error occurred, display output
	if err != nil {
		var errMsg strings.Builder
		errMsg.WriteString(fmt.Sprintf("failed to render %s: %v\n", scadFile, err))
		if stderr.Len() > 0 {
			errMsg.WriteString("stderr: ")
			errMsg.WriteString(stderr.String())
		}
		if stdout.Len() > 0 {
			errMsg.WriteString("stdout: ")
			errMsg.WriteString(stdout.String())
		}
		return errors.New(strings.TrimSpace(errMsg.String()))
	}

	return nil
}

// ResolveDependencies returns the absolute paths of scadFile and every file
// it pulls in through use, include or import statements, depth first.
// Imported meshes are listed but not parsed.
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	seen := make(map[string]bool)
	var deps []string
	if err := r.collect(r.abs(scadFile), seen, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *Renderer) collect(path string, seen map[string]bool, deps *[]string) error {
	if seen[path] {
		return nil
	}
	seen[path] = true
	*deps = append(*deps, path)

	if !IsSource(path) {
		return nil
	}
	refs, err := r.references(path)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if err := r.collect(ref, seen, deps); err != nil {
			return err
		}
	}
	return nil
}

// references lists the files named by one source, in order of appearance
func (r *Renderer) references(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	dir := filepath.Dir(scadFile)
	var refs []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		for _, re := range []*regexp.Regexp{useRegex, includeRegex, importRegex} {
			if m := re.FindStringSubmatch(line); len(m) > 1 {
				refs = append(refs, r.resolve(m[1], dir))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}
	return refs, nil
}

// resolve looks for ref next to the referencing file, then in the work
// directory. Explicitly relative paths are always taken from the file.
func (r *Renderer) resolve(ref, dir string) string {
	local := filepath.Clean(filepath.Join(dir, ref))
	if strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../") || filepath.IsAbs(ref) {
		if filepath.IsAbs(ref) {
			return filepath.Clean(ref)
		}
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Clean(filepath.Join(r.workDir, ref))
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}

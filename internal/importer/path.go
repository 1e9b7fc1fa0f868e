package importer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yargevad/filepathx"
)

// Extensions picked up when importing a directory
var importableExtensions = map[string]bool{
	".json":  true,
	".jsonl": true,
	".csv":   true,
	".log":   true,
}

// PathResult is the outcome for one imported file. Exactly one of Timing and
// Session is set.
type PathResult struct {
	Path    string         `json:"path"`
	Timing  *TimingResult  `json:"timing,omitempty"`
	Session *SessionResult `json:"session,omitempty"`
}

// DirResult collects the files imported from a directory and the per-file
// failures that did not stop the walk.
type DirResult struct {
	Files    []PathResult `json:"files"`
	Warnings []string     `json:"warnings,omitempty"`
}

// IsSessionDocument reports whether path is routed to the session importer
func IsSessionDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// ImportPath imports a .json file as a session document and any other file as
// a timing log.
func (imp *Importer) ImportPath(ctx context.Context, path string, opts TimingOptions) (PathResult, error) {
	result := PathResult{Path: path}

	if IsSessionDocument(path) {
		res, err := imp.ImportSessionDocument(ctx, path)
		if err != nil {
			return result, err
		}
		result.Session = &res
		return result, nil
	}

	res, err := imp.ImportTimingLog(ctx, path, opts)
	if err != nil {
		return result, err
	}
	result.Timing = &res
	return result, nil
}

// ImportDir walks dir in lexical order and imports every file with a known
// extension. A file that fails to import becomes a warning; the walk stops
// only when ctx is cancelled or the directory cannot be read.
func (imp *Importer) ImportDir(ctx context.Context, dir string, opts TimingOptions) (DirResult, error) {
	var result DirResult

	info, err := os.Stat(dir)
	if err != nil {
		return result, fmt.Errorf("stat import directory: %w", err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("%s is not a directory", dir)
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !importableExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		imp.importInto(ctx, &result, path, opts)
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("walk import directory: %w", err)
	}

	return result, nil
}

// HasGlobMeta reports whether path should be expanded as a glob
func HasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[")
}

// ImportGlob imports every regular file matching pattern. "**" matches any
// number of directories. Matches are imported in lexical order whatever
// their extension, and failures become warnings as in ImportDir.
func (imp *Importer) ImportGlob(ctx context.Context, pattern string, opts TimingOptions) (DirResult, error) {
	var result DirResult

	matches, err := filepathx.Glob(pattern)
	if err != nil {
		return result, fmt.Errorf("expand import pattern: %w", err)
	}
	sort.Strings(matches)

	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		imp.importInto(ctx, &result, path, opts)
	}
	return result, nil
}

func (imp *Importer) importInto(ctx context.Context, result *DirResult, path string, opts TimingOptions) {
	res, err := imp.ImportPath(ctx, path, opts)
	if err != nil {
		imp.logger.Warn("import failed", "path", path, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", path, err))
		return
	}
	result.Files = append(result.Files, res)
}

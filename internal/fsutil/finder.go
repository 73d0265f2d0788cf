// Package fsutil provides file system utility functions over an abstract
// afero filesystem, so every caller is testable against an in-memory tree.
package fsutil

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FindFiles recursively collects the regular files under the given root,
// skipping dot-prefixed files and directories. Results are returned sorted so
// repeated discovery is stable.
func FindFiles(fsys afero.Fs, rootPath string) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, rootPath, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && p != rootPath {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// IsPattern reports whether the value contains a glob wildcard.
func IsPattern(value string) bool {
	return strings.Contains(value, "*")
}

// Glob expands a single-wildcard pattern against the filesystem, returning
// matches in sorted order. Directory matches are reported with a trailing
// slash preserved if the pattern carried one.
func Glob(fsys afero.Fs, pattern string) ([]string, error) {
	trailingSlash := strings.HasSuffix(pattern, "/")
	matches, err := afero.Glob(fsys, strings.TrimSuffix(pattern, "/"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	if trailingSlash {
		for i, m := range matches {
			matches[i] = m + "/"
		}
	}
	return matches, nil
}

// Exists reports whether the path names an existing file or directory.
func Exists(fsys afero.Fs, p string) bool {
	ok, err := afero.Exists(fsys, p)
	return err == nil && ok
}

// IsDir reports whether the path names an existing directory.
func IsDir(fsys afero.Fs, p string) bool {
	ok, err := afero.IsDir(fsys, p)
	return err == nil && ok
}

// Ext returns the file extension of the path without the leading dot.
func Ext(p string) string {
	return strings.TrimPrefix(path.Ext(p), ".")
}

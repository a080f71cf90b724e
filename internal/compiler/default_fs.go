// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"path/filepath"

	"gopkg.microglot.org/tsproto.go/internal/fs"
	"gopkg.microglot.org/tsproto.go/internal/idl"
)

func NewDefaultFS(lookup func(string) (string, bool)) (idl.FileSystem, error) {
	return NewRootedFS(lookup, nil)
}

// NewRootedFS searches each of the given roots in order before falling back
// to the platform include directories.
func NewRootedFS(lookup func(string) (string, bool), roots []string) (idl.FileSystem, error) {
	all := append(append([]string{}, roots...), getDefaultRoots(lookup)...)
	f := make(fs.FileSystemMulti, 0, len(all))
	for _, root := range all {
		absRoot, errAbs := filepath.Abs(root)
		if errAbs != nil {
			return nil, errAbs
		}
		rf, err := fs.NewFileSystemLocal(absRoot)
		if err != nil {
			return nil, err
		}
		f = append(f, rf)
	}
	return f, nil
}

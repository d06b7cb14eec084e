// Package fileutil moves, copies, deletes and creates project files and
// folders. Every failure is logged through the file console and returned,
// so callers that only care about the log can drop the error.
package fileutil

import (
	"bufio"
	"elypso/internal/console"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func logger() *slog.Logger {
	return console.For(console.File)
}

func fail(err error) error {
	logger().Error(err.Error())
	return err
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// MoveOrRename moves src to dst. It never overwrites: dst must not exist.
func MoveOrRename(src, dst string, isRenaming bool) error {
	verb := "move"
	if isRenaming {
		verb = "rename"
	}
	if !exists(src) {
		return fail(fmt.Errorf("cannot %s %s: source %w", verb, src, fs.ErrNotExist))
	}
	if exists(dst) {
		return fail(fmt.Errorf("cannot %s %s to %s: destination %w", verb, src, dst, fs.ErrExist))
	}
	if err := os.Rename(src, dst); err != nil {
		return fail(fmt.Errorf("%s %s: %w", verb, src, err))
	}

	if isRenaming {
		logger().Debug("Renamed", slog.String("from", src), slog.String("to", dst))
	} else {
		logger().Debug("Moved", slog.String("from", src), slog.String("to", dst))
	}
	return nil
}

// CopyFileOrFolder copies a file or a whole folder tree to dst, overwriting
// whatever is already there.
func CopyFileOrFolder(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fail(fmt.Errorf("cannot copy %s: %w", src, err))
	}

	if info.IsDir() {
		if err := copyDir(src, dst); err != nil {
			return fail(fmt.Errorf("copy folder %s: %w", src, err))
		}
		logger().Debug("Copied folder", slog.String("from", src), slog.String("to", dst))
		return nil
	}

	if !info.Mode().IsRegular() {
		return fail(fmt.Errorf("cannot copy %s: not a regular file or folder", src))
	}
	if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
		return fail(fmt.Errorf("copy file %s: %w", src, err))
	}
	logger().Debug("Copied file", slog.String("from", src), slog.String("to", dst))
	return nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// DeleteFileOrFolder removes a file, or a folder with everything in it.
// Files in a folder go before its subfolders, subfolders are emptied depth
// first, and the folder itself is removed last.
func DeleteFileOrFolder(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fail(fmt.Errorf("cannot delete %s: %w", path, err))
	}

	if info.IsDir() {
		err = deleteTree(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return fail(fmt.Errorf("delete %s: %w", path, err))
	}

	logger().Debug("Deleted", slog.String("path", path))
	return nil
}

func deleteTree(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	for _, sub := range subdirs {
		if err := deleteTree(sub); err != nil {
			return err
		}
	}
	return os.Remove(dir)
}

// CreateNewFolder creates a single folder. It fails if anything already
// sits at path.
func CreateNewFolder(path string) error {
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return fail(fmt.Errorf("cannot create folder %s: a file with that name %w", path, fs.ErrExist))
		}
		return fail(fmt.Errorf("cannot create folder %s: %w", path, fs.ErrExist))
	}

	if err := os.Mkdir(path, 0o755); err != nil {
		return fail(fmt.Errorf("create folder %s: %w", path, err))
	}

	logger().Debug("Created new folder", slog.String("path", path))
	return nil
}

// AddIndex returns a path in parentDir for baseName+ext that does not clash
// with an existing entry. When both "name.ext" and "name (1).ext" are taken
// it goes one past the highest "(n)" already used in the folder, so
// numbering never reuses a gap.
func AddIndex(parentDir, baseName, ext string) string {
	path := filepath.Join(parentDir, baseName+ext)
	if !exists(path) {
		return path
	}

	path = filepath.Join(parentDir, baseName+" (1)"+ext)
	if !exists(path) {
		return path
	}

	indexed := func(n int) string {
		return filepath.Join(parentDir, baseName+" ("+strconv.Itoa(n)+")"+ext)
	}

	highest := 1
	entries, err := os.ReadDir(parentDir)
	if err != nil {
		logger().Error("Failed to scan folder for indexes", slog.String("path", parentDir), slog.Any("err", err))
		return firstFreeIndex(indexed, 2)
	}
	prefix := baseName + " ("
	for _, entry := range entries {
		rest, ok := strings.CutPrefix(entry.Name(), prefix)
		if !ok {
			continue
		}
		digits, _, ok := strings.Cut(rest, ")")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		if n >= highest {
			highest = n + 1
		}
	}

	return indexed(highest)
}

// firstFreeIndex probes indexed(n), indexed(n+1), ... and returns the first
// path that does not exist.
func firstFreeIndex(indexed func(n int) string, n int) string {
	for exists(indexed(n)) {
		n++
	}
	return indexed(n)
}

// TempPath returns the sibling file a save to path is staged in,
// "scene.txt" becoming "scene_TEMP.txt".
func TempPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_TEMP" + ext
}

// WriteFileAtomic stages the output of write in TempPath(path), flushes it to
// disk and renames it over path. Until the rename the previous file is
// untouched; on any error the temp file is removed.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	tempPath := TempPath(path)
	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tempPath, err)
	}
	defer func() {
		if err != nil {
			f.Close()
			if rmErr := os.Remove(tempPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				logger().Error("Failed to remove temp file", slog.String("path", tempPath), slog.Any("err", rmErr))
			}
		}
	}()

	bw := bufio.NewWriter(f)
	if err = write(bw); err != nil {
		return fmt.Errorf("write %s: %w", tempPath, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", tempPath, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tempPath, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tempPath, err)
	}
	if err = os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

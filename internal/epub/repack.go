package epub

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Repackage zips the book's extraction directory back into a valid
// EPUB at outPath. The mimetype entry comes first and is stored
// uncompressed, as the container format requires; everything else is
// deflated.
func Repackage(b *Book, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output epub: %w", err)
	}
	zw := zip.NewWriter(out)

	writeFile := func(rel string, method uint16) error {
		src, err := os.Open(filepath.Join(b.RootDir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		defer src.Close()
		w, err := zw.CreateHeader(&zip.FileHeader{Name: rel, Method: method})
		if err != nil {
			return err
		}
		_, err = io.Copy(w, src)
		return err
	}

	// mimetype first, stored.
	hasMimetype := false
	if _, err := os.Stat(filepath.Join(b.RootDir, "mimetype")); err == nil {
		hasMimetype = true
		if err := writeFile("mimetype", zip.Store); err != nil {
			zw.Close()
			out.Close()
			return fmt.Errorf("write mimetype: %w", err)
		}
	}
	if !hasMimetype {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
		if err == nil {
			_, err = w.Write([]byte("application/epub+zip"))
		}
		if err != nil {
			zw.Close()
			out.Close()
			return fmt.Errorf("write mimetype: %w", err)
		}
	}

	walkErr := filepath.WalkDir(b.RootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(b.RootDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "mimetype" || strings.HasPrefix(rel, ".") {
			return nil
		}
		if err := writeFile(rel, zip.Deflate); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
		return nil
	})
	if walkErr != nil {
		zw.Close()
		out.Close()
		return walkErr
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finalize epub: %w", err)
	}
	return out.Close()
}

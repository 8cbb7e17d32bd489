// Package epub handles the EPUB container: extraction, OPF manifest and
// spine parsing, content document IO, and repackaging.
package epub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Book is one extracted EPUB: its working directory plus the content
// files in spine (reading) order.
type Book struct {
	// SourcePath is the original .epub file.
	SourcePath string
	// RootDir is the extraction directory holding the unzipped book.
	RootDir string
	// OPFPath is the package document path, relative to RootDir.
	OPFPath string
	// Package is the parsed OPF.
	Package Package
	// ContentFiles are translatable document paths relative to
	// RootDir, ordered by the spine.
	ContentFiles []string
}

// Open extracts an EPUB into destDir and parses its structure.
func Open(epubPath, destDir string) (*Book, error) {
	if !strings.EqualFold(filepath.Ext(epubPath), ".epub") {
		return nil, fmt.Errorf("not an epub file: %s", epubPath)
	}

	r, err := zip.OpenReader(epubPath)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer r.Close()

	if err := extractAll(&r.Reader, destDir); err != nil {
		return nil, err
	}

	opfRel, err := findOPF(&r.Reader)
	if err != nil {
		return nil, err
	}

	book := &Book{
		SourcePath: epubPath,
		RootDir:    destDir,
		OPFPath:    opfRel,
	}
	if err := book.parseOPF(); err != nil {
		return nil, err
	}
	return book, nil
}

// extractAll unzips every entry under destDir, rejecting path escapes.
func extractAll(r *zip.Reader, destDir string) error {
	for _, f := range r.File {
		rel := filepath.FromSlash(f.Name)
		target := filepath.Join(destDir, rel)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry escapes extraction dir: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create dir %s: %w", rel, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("create dir for %s: %w", rel, err)
		}
		src, err := f.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		dst, err := os.Create(target)
		if err != nil {
			src.Close()
			return fmt.Errorf("create %s: %w", rel, err)
		}
		_, err = io.Copy(dst, src)
		src.Close()
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("extract %s: %w", rel, err)
		}
	}
	return nil
}

// findOPF resolves the package document path, preferring
// META-INF/container.xml and falling back to a suffix scan.
func findOPF(r *zip.Reader) (string, error) {
	if f, err := r.Open("META-INF/container.xml"); err == nil {
		defer f.Close()
		var c container
		if err := xml.NewDecoder(f).Decode(&c); err == nil {
			for _, rf := range c.Rootfiles {
				if rf.FullPath != "" {
					return rf.FullPath, nil
				}
			}
		}
	}
	for _, f := range r.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".opf") {
			return f.Name, nil
		}
	}
	return "", fmt.Errorf("no OPF package document found")
}

// parseOPF reads the package document and resolves the spine-ordered
// content file list.
func (b *Book) parseOPF() error {
	data, err := os.ReadFile(filepath.Join(b.RootDir, filepath.FromSlash(b.OPFPath)))
	if err != nil {
		return fmt.Errorf("read opf: %w", err)
	}
	if err := xml.Unmarshal(data, &b.Package); err != nil {
		return fmt.Errorf("parse opf: %w", err)
	}

	items := make(map[string]Item, len(b.Package.Manifest.Items))
	for _, it := range b.Package.Manifest.Items {
		items[it.ID] = it
	}

	opfDir := path.Dir(b.OPFPath)
	add := func(it Item) {
		if !contentMediaTypes[it.MediaType] {
			return
		}
		href := it.Href
		if opfDir != "." {
			href = path.Join(opfDir, href)
		}
		b.ContentFiles = append(b.ContentFiles, href)
	}

	if len(b.Package.Spine.ItemRefs) > 0 {
		for _, ref := range b.Package.Spine.ItemRefs {
			if it, ok := items[ref.IDRef]; ok {
				add(it)
			}
		}
	} else {
		for _, it := range b.Package.Manifest.Items {
			add(it)
		}
	}

	if len(b.ContentFiles) == 0 {
		return fmt.Errorf("no translatable content documents in manifest")
	}
	return nil
}

// LoadDocument parses one content file into a document tree.
func (b *Book) LoadDocument(rel string) (*html.Node, error) {
	f, err := os.Open(filepath.Join(b.RootDir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("open content file %s: %w", rel, err)
	}
	defer f.Close()
	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}
	return doc, nil
}

// SaveDocument serializes a document tree back to its content file.
func (b *Book) SaveDocument(rel string, doc *html.Node) error {
	f, err := os.Create(filepath.Join(b.RootDir, filepath.FromSlash(rel)))
	if err != nil {
		return fmt.Errorf("create content file %s: %w", rel, err)
	}
	if err := html.Render(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", rel, err)
	}
	return f.Close()
}

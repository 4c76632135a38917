package asset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// IndexFile is the entry HTML document of the bundle.
const IndexFile = "index.html"

// ErrNotFound is returned for missing files, directories and invalid names.
var ErrNotFound = errors.New("asset not found")

// Bundle is a read-only view over a directory of static files.
type Bundle struct {
	fsys fs.FS
	root string
}

// NewDirBundle serves files from dir on the local filesystem.
func NewDirBundle(dir string) *Bundle {
	return &Bundle{fsys: os.DirFS(dir), root: dir}
}

// NewBundle serves files from an arbitrary fs.FS.
func NewBundle(fsys fs.FS, root string) *Bundle {
	return &Bundle{fsys: fsys, root: root}
}

// Root describes where files come from, for logging.
func (b *Bundle) Root() string {
	return b.root
}

// Asset is an opened bundle file. Close must be called when done.
type Asset struct {
	Name        string
	ModTime     time.Time
	Size        int64
	ContentType string
	Content     io.ReadSeeker

	closer io.Closer
}

func (a *Asset) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Clean turns a URL path into a bundle name; "" and "/" map to IndexFile.
func Clean(urlPath string) string {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		return IndexFile
	}
	return name
}

// Open resolves name (as returned by Clean) and detects its content type.
func (b *Bundle) Open(name string) (*Asset, error) {
	if !fs.ValidPath(name) {
		return nil, ErrNotFound
	}

	f, err := b.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrNotFound
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		content = bytes.NewReader(data)
	}

	ctype, err := contentType(name, content)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Asset{
		Name:        name,
		ModTime:     info.ModTime(),
		Size:        info.Size(),
		ContentType: ctype,
		Content:     content,
		closer:      f,
	}, nil
}

// Exists reports whether name resolves to a regular file.
func (b *Bundle) Exists(name string) bool {
	a, err := b.Open(name)
	if err != nil {
		return false
	}
	_ = a.Close()
	return true
}

// contentType prefers the extension and falls back to sniffing the content,
// leaving the reader at offset zero.
func contentType(name string, content io.ReadSeeker) (string, error) {
	if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
		return ctype, nil
	}

	mt, err := mimetype.DetectReader(content)
	if err != nil {
		return "", fmt.Errorf("detect content type of %s: %w", name, err)
	}
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind %s: %w", name, err)
	}

	return mt.String(), nil
}

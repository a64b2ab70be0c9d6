package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileKV stores each blob as a file under Dir.
type FileKV struct {
	Dir string
}

// NewFileKV returns a FileKV rooted at dir. The directory is created on the
// first Set.
func NewFileKV(dir string) (*FileKV, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("store dir is empty")
	}
	return &FileKV{Dir: dir}, nil
}

// Path returns the file backing the blob called name.
func (f *FileKV) Path(name string) string {
	return filepath.Join(f.Dir, fileName(name)+".json")
}

// Get reads the blob called name.
func (f *FileKV) Get(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(f.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read blob %s: %w", name, err)
	}
	return string(data), true, nil
}

// Set overwrites the blob called name. The write goes to a temp file that is
// renamed over the old blob, so readers never see a partial write.
func (f *FileKV) Set(ctx context.Context, name, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.Dir, "."+fileName(name)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write blob %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close blob %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, f.Path(name)); err != nil {
		return fmt.Errorf("replace blob %s: %w", name, err)
	}
	return nil
}

// Close is a no-op.
func (f *FileKV) Close() error {
	return nil
}

func fileName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "blob"
	}

	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '_' || c == '-'
		if !valid {
			b.WriteByte('_')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

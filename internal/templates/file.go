package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"
)

// FileCache parses operator-supplied html/template files once and reuses
// them.
type FileCache struct {
	mu    sync.Mutex
	files map[string]*template.Template
}

func NewFileCache() *FileCache {
	return &FileCache{files: make(map[string]*template.Template)}
}

// Load returns the parsed template at path.
func (f *FileCache) Load(path string) (*template.Template, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.files[path]; ok {
		return t, nil
	}
	t, err := template.New(filepath.Base(path)).ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	f.files[path] = t
	return t, nil
}

// Render executes the template at path into the response. Output is
// buffered so a failing template never sends a partial page.
func (f *FileCache) Render(c *gin.Context, status int, path string, data any) error {
	t, err := f.Load(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute template %s: %w", path, err)
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
	return nil
}

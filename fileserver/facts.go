package fileserver

import (
	"os"
	"path/filepath"
	"time"
)

// Facts answers the resource questions the decision engine asks. Names are
// relative document names, already resolved and confined by the engine.
type Facts interface {
	// Exists reports whether the name resolves to a servable document.
	Exists(name string) bool
	// LastModified returns the document's modification time, if known.
	LastModified(name string) (time.Time, bool)
	// Read returns the whole contents of the document.
	Read(name string) ([]byte, error)
}

// Dir serves documents from a directory on disk. Directories themselves are
// not servable and count as absent.
type Dir struct {
	root string
}

func NewDir(root string) Dir {
	return Dir{root: root}
}

func (d Dir) Exists(name string) bool {
	info, err := os.Stat(filepath.Join(d.root, name))
	return err == nil && info.Mode().IsRegular()
}

func (d Dir) LastModified(name string) (time.Time, bool) {
	info, err := os.Stat(filepath.Join(d.root, name))
	if err != nil || !info.Mode().IsRegular() {
		return time.Time{}, false
	}

	return info.ModTime(), true
}

func (d Dir) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.root, name))
}

// InMem holds documents in memory. Populate it before serving: the engine
// reads it concurrently and without locking.
type InMem struct {
	docs map[string]document
}

type document struct {
	content  []byte
	modified time.Time
}

func NewInMem() *InMem {
	return &InMem{docs: make(map[string]document)}
}

// Put stores a document under the given name, returning the storage back for
// chaining.
func (m *InMem) Put(name string, content []byte, modified time.Time) *InMem {
	m.docs[name] = document{content: content, modified: modified}
	return m
}

func (m *InMem) Exists(name string) bool {
	_, found := m.docs[name]
	return found
}

func (m *InMem) LastModified(name string) (time.Time, bool) {
	doc, found := m.docs[name]
	return doc.modified, found
}

func (m *InMem) Read(name string) ([]byte, error) {
	doc, found := m.docs[name]
	if !found {
		return nil, os.ErrNotExist
	}

	return doc.content, nil
}

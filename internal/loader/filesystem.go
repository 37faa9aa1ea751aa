package loader

import "os"

// FileSystem reads local files by path.
// Implementations may read from disk, memory, an archive, etc.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem reads from the host filesystem.
type OSFileSystem struct{}

// ReadFile reads the named file.
func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) // #nosec G304 -- locators come from the document being inlined
}

// Compile-time interface check.
var _ FileSystem = OSFileSystem{}

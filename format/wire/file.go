package wire

import (
	"os"

	"github.com/spf13/afero"

	"github.com/eluv-io/errors-go"
)

// File is a message stream read from a file. Closing it closes the
// underlying file; all views of its decoded messages become invalid.
type File struct {
	*Reader
	f afero.File
}

// Open opens the array stream stored in the given file.
func Open(fs afero.Fs, path string, opt ...Option) (*File, error) {
	f, err := fs.Open(path)
	if err != nil {
		kind := errors.K.IO
		if os.IsNotExist(err) {
			kind = errors.K.NotExist
		}
		return nil, errors.E("open stream", kind, err, "path", path)
	}
	return &File{Reader: NewReader(f, opt...), f: f}, nil
}

func (f *File) Close() error {
	return f.f.Close()
}

// FileWriter is a message stream written to a file.
type FileWriter struct {
	*Writer
	f afero.File
}

// Create creates a file and returns a stream writer on it. An existing file
// is truncated: streams are append-only and cannot be rewritten in place.
func Create(fs afero.Fs, path string, opt ...Option) (*FileWriter, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, errors.E("create stream", errors.K.IO, err, "path", path)
	}
	return &FileWriter{Writer: NewWriter(f, opt...), f: f}, nil
}

func (f *FileWriter) Close() error {
	return f.f.Close()
}

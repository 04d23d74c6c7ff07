package writers

import (
	"io"
	"os"
)

// LazyWriteCloser delays creating the underlying writer until the first
// write, so a failed run never leaves an empty output file behind.
type LazyWriteCloser struct {
	open   func() (io.WriteCloser, error)
	writer io.WriteCloser
}

func NewLazyWriteCloser(open func() (io.WriteCloser, error)) *LazyWriteCloser {
	return &LazyWriteCloser{open: open}
}

// NewLazyFile opens path for writing, truncating it, on first write.
func NewLazyFile(path string) *LazyWriteCloser {
	return NewLazyWriteCloser(func() (io.WriteCloser, error) {
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	})
}

func (f *LazyWriteCloser) Write(p []byte) (int, error) {
	if f.writer == nil {
		w, err := f.open()
		if err != nil {
			return 0, err
		}
		f.writer = w
	}

	return f.writer.Write(p)
}

func (f *LazyWriteCloser) Close() error {
	if f.writer != nil {
		return f.writer.Close()
	}
	return nil
}

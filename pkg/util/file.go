package util

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

type filteredReader struct {
	cmd *exec.Cmd
	r   io.ReadCloser
	src io.Closer
}

func (fr *filteredReader) Read(p []byte) (n int, err error) {
	return fr.r.Read(p)
}

func (fr *filteredReader) Close() error {
	return errors.Join(fr.r.Close(), fr.cmd.Wait(), fr.src.Close())
}

func filterByCommand(r io.ReadCloser, args []string) (io.ReadCloser, error) {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = r
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &filteredReader{cmd: cmd, r: stdout, src: r}, nil
}

// decompressedReader closes the decoder and the underlying file together.
type decompressedReader struct {
	io.Reader
	closeDecoder func() error
	src          io.Closer
}

func (d *decompressedReader) Close() error {
	return errors.Join(d.closeDecoder(), d.src.Close())
}

type filterFunc func(r io.ReadCloser) (io.ReadCloser, error)

var fileTypes = map[string]filterFunc{
	".gz": func(r io.ReadCloser) (io.ReadCloser, error) {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &decompressedReader{Reader: zr, closeDecoder: zr.Close, src: r}, nil
	},
	".zst": func(r io.ReadCloser) (io.ReadCloser, error) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &decompressedReader{Reader: zr, closeDecoder: func() error {
			zr.Close()
			return nil
		}, src: r}, nil
	},
	".xz": func(r io.ReadCloser) (io.ReadCloser, error) {
		return filterByCommand(r, []string{"xz", "-cd", "-T", "0"})
	},
}

// OpenFile opens filename for reading, decompressing .gz, .zst and .xz
// files on the fly.
func OpenFile(filename string) (io.ReadCloser, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	if filter, ok := fileTypes[filepath.Ext(filename)]; ok {
		rc, err := filter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return rc, nil
	}
	return f, nil
}

package fileiter

import (
	"bufio"
	"io"

	"github.com/nxadm/tail"
)

const DefaultBufferSize = 1024 * 1024

// Iterator yields lines without their terminator. Next returns io.EOF
// once the lines are exhausted; any other error also ends the sequence.
type Iterator interface {
	Next() ([]byte, error)
}

type scannerIterator struct {
	scanner *bufio.Scanner
}

// NewWithScanner reads r lazily. bufSize caps the length of a line; a
// longer line ends the sequence with bufio.ErrTooLong.
func NewWithScanner(r io.Reader, bufSize int) Iterator {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(bufSize, 64*1024)), bufSize)
	return &scannerIterator{scanner: scanner}
}

func (s *scannerIterator) Next() ([]byte, error) {
	if s.scanner.Scan() {
		return s.scanner.Bytes(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

type tailIterator struct {
	tail *tail.Tail
}

func (t tailIterator) Next() ([]byte, error) {
	line, ok := <-t.tail.Lines
	if !ok {
		// Lines is closed just before the tail goroutine finishes
		if err := t.tail.Wait(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	if line.Err != nil {
		return nil, line.Err
	}
	return []byte(line.Text), nil
}

func NewWithTail(tail *tail.Tail) Iterator {
	return tailIterator{tail: tail}
}

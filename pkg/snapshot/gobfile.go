package snapshot

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// GobFile keeps one gob encoded value of type T in a single file. Saves are
// atomic: readers see the old value or the new one, never a partial write.
type GobFile[T any] struct {
	filename string
}

func NewGobFile[T any](filename string) *GobFile[T] {
	return &GobFile[T]{filename: filename}
}

func (gf *GobFile[T]) Save(obj T) error {
	return writeAtomic(gf.filename, func(w io.Writer) error {
		if err := gob.NewEncoder(w).Encode(obj); err != nil {
			return fmt.Errorf("encoding %T: %w", obj, err)
		}
		return nil
	})
}

func (gf *GobFile[T]) Load() (T, error) {
	var obj T
	f, err := os.Open(gf.filename)
	if err != nil {
		return obj, fmt.Errorf("opening %q: %w", gf.filename, err)
	}
	defer f.Close()

	err = gob.NewDecoder(bufio.NewReader(f)).Decode(&obj)
	switch {
	case errors.Is(err, io.EOF):
		return obj, fmt.Errorf("file %q is empty", gf.filename)
	case err != nil:
		return obj, fmt.Errorf("decoding %q: %w", gf.filename, err)
	}
	return obj, nil
}

// writeAtomic writes through a temp file in the target's directory, so the
// rename stays on one filesystem.
func writeAtomic(filename string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filename), ".winwifi-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %q: %w", filename, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err = write(buf); err != nil {
		return err
	}
	if err = buf.Flush(); err != nil {
		return fmt.Errorf("writing %q: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %q: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("renaming into %q: %w", filename, err)
	}
	return nil
}

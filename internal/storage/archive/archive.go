package archive

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/jgivc/photozip/internal/common"
)

const (
	fileNameFormat = "image_%03d%s"
)

// Builder accumulates named payloads into an in-memory zip. Entries keep
// insertion order and filenames derive from the 1-based entry index, so no
// collision handling is needed. After Seal the builder rejects writes.
type Builder struct {
	buf    bytes.Buffer
	zw     *zip.Writer
	count  int
	sealed bool
}

func NewBuilder() *Builder {
	b := &Builder{}
	b.zw = zip.NewWriter(&b.buf)

	return b
}

// Add stores data as image_{index:03d}{ext}. The index comes from the link
// entry position, ext must include the leading dot.
func (b *Builder) Add(index int, ext string, data []byte) error {
	if b.sealed {
		return common.ErrArchiveSealed
	}

	w, err := b.zw.Create(fmt.Sprintf(fileNameFormat, index, ext))
	if err != nil {
		return fmt.Errorf("cannot create archive entry %d: %w", index, err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("cannot write archive entry %d: %w", index, err)
	}

	b.count++

	return nil
}

// Seal finishes the zip stream and returns the archive blob. The builder
// cannot be written to afterwards.
func (b *Builder) Seal() ([]byte, error) {
	if b.sealed {
		return b.buf.Bytes(), nil
	}

	if err := b.zw.Close(); err != nil {
		return nil, fmt.Errorf("cannot close archive: %w", err)
	}

	b.sealed = true

	return b.buf.Bytes(), nil
}

func (b *Builder) Count() int {
	return b.count
}

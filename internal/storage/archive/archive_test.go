package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/jgivc/photozip/internal/common"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder()

	require.NoError(t, b.Add(1, ".jpg", []byte("first")))
	require.NoError(t, b.Add(2, ".png", []byte("second")))
	require.NoError(t, b.Add(3, ".jpg", []byte("third")))
	require.Equal(t, 3, b.Count())

	blob, err := b.Seal()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	expected := []struct {
		name    string
		content string
	}{
		{name: "image_001.jpg", content: "first"},
		{name: "image_002.png", content: "second"},
		{name: "image_003.jpg", content: "third"},
	}

	for i, want := range expected {
		require.Equal(t, want.name, zr.File[i].Name)

		rc, err := zr.File[i].Open()
		require.NoError(t, err)

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		require.Equal(t, want.content, string(data))
	}
}

func TestBuilderZeroPadding(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(42, ".jpg", []byte("x")))
	require.NoError(t, b.Add(1000, ".jpg", []byte("y")))

	blob, err := b.Seal()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
	require.Equal(t, "image_042.jpg", zr.File[0].Name)
	require.Equal(t, "image_1000.jpg", zr.File[1].Name)
}

func TestBuilderSealed(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(1, ".jpg", []byte("x")))

	_, err := b.Seal()
	require.NoError(t, err)

	require.ErrorIs(t, b.Add(2, ".jpg", []byte("y")), common.ErrArchiveSealed)
	require.Equal(t, 1, b.Count())
}

func TestBuilderEmptyArchiveIsValid(t *testing.T) {
	blob, err := NewBuilder().Seal()
	require.NoError(t, err)

	_, err = zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	require.NoError(t, err)
}

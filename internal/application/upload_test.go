package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/storage"
)

func TestUploadService_Save(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(storage.NewLocalArtifactStore(dir, "/uploads"), 1<<20)
	svc.newID = func() string { return "fixed" }
	ctx := context.Background()

	p, err := svc.Save(ctx, "../my eye.png", encodePNG(t, 4, 4))
	require.NoError(t, err)
	require.Equal(t, "/uploads/fixed-my_eye.png", p)
	require.FileExists(t, filepath.Join(dir, "fixed-my_eye.png"))

	_, err = svc.Save(ctx, "notes.txt", []byte("plain text body"))
	require.ErrorIs(t, err, entity.ErrDecodeImage)

	_, err = svc.Save(ctx, "empty.png", nil)
	require.ErrorIs(t, err, entity.ErrNoImage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestUploadService_MaxSize(t *testing.T) {
	svc := NewUploadService(storage.NewLocalArtifactStore(t.TempDir(), "/uploads"), 10)
	_, err := svc.Save(context.Background(), "big.png", encodePNG(t, 16, 16))
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

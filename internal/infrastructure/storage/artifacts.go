package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/vision"
)

// LocalArtifactStore кладёт файлы в каталог загрузок, откуда их раздаёт
// веб-сервер под префиксом PublicPrefix.
type LocalArtifactStore struct {
	Dir          string
	PublicPrefix string
}

func NewLocalArtifactStore(dir, publicPrefix string) *LocalArtifactStore {
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	return &LocalArtifactStore{Dir: dir, PublicPrefix: "/" + strings.Trim(publicPrefix, "/")}
}

func (s *LocalArtifactStore) SaveImage(ctx context.Context, name string, img image.Image) (string, []byte, error) {
	name = vision.EncodedName(name)
	data, contentType, err := vision.Encode(name, img)
	if err != nil {
		return "", nil, err
	}
	p, err := s.Put(ctx, name, data, contentType)
	if err != nil {
		return "", nil, err
	}
	return p, data, nil
}

func (s *LocalArtifactStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	name, err := safeName(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrOutputNotWritable, err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrOutputNotWritable, err)
	}
	return path.Join(s.PublicPrefix, name), nil
}

// Get принимает публичный путь "/uploads/x.png" или просто имя файла.
func (s *LocalArtifactStore) Get(ctx context.Context, publicPath string) ([]byte, error) {
	name, err := safeName(strings.TrimPrefix(publicPath, s.PublicPrefix+"/"))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", entity.ErrImageNotFound, publicPath)
	}
	return data, err
}

// Path путь к файлу на диске по публичному пути.
func (s *LocalArtifactStore) Path(publicPath string) (string, error) {
	name, err := safeName(strings.TrimPrefix(publicPath, s.PublicPrefix+"/"))
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, name), nil
}

// safeName оставляет только имя файла, без каталогов.
func safeName(name string) (string, error) {
	base := path.Base(filepath.ToSlash(strings.TrimSpace(name)))
	if base == "" || base == "." || base == ".." || base == "/" {
		return "", fmt.Errorf("%w: invalid file name %q", entity.ErrImageNotFound, name)
	}
	return base, nil
}

var _ port.ArtifactStore = (*LocalArtifactStore)(nil)

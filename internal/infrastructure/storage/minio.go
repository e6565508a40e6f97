package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/vision"
)

// MinIOArtifactStore хранит снимки и наложения в бакете MinIO.
type MinIOArtifactStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinIOArtifactStore создаёт клиента и бакет, если его ещё нет.
func NewMinIOArtifactStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, publicBase string) (*MinIOArtifactStore, error) {
	c, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &MinIOArtifactStore{client: c, bucket: bucket, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (m *MinIOArtifactStore) SaveImage(ctx context.Context, name string, img image.Image) (string, []byte, error) {
	name = vision.EncodedName(name)
	data, contentType, err := vision.Encode(name, img)
	if err != nil {
		return "", nil, err
	}
	p, err := m.Put(ctx, name, data, contentType)
	if err != nil {
		return "", nil, err
	}
	return p, data, nil
}

// Put загружает объект и возвращает его публичный URL.
func (m *MinIOArtifactStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key, err := safeName(name)
	if err != nil {
		return "", err
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrOutputNotWritable, err)
	}
	return m.objectURL(key)
}

// objectURL публичный адрес объекта: <publicBase>/<bucket>/<key>.
func (m *MinIOArtifactStore) objectURL(key string) (string, error) {
	u, err := url.Parse(m.publicBase)
	if err != nil {
		return "", err
	}
	u.Path = path.Join(u.Path, m.bucket, key)
	return u.String(), nil
}

// objectKey ключ объекта из публичного URL, пути или голого ключа.
func objectKey(publicPath string) (string, error) {
	key := publicPath
	if u, err := url.Parse(publicPath); err == nil {
		key = u.Path
	}
	return safeName(key)
}

// Get читает объект по URL или ключу.
func (m *MinIOArtifactStore) Get(ctx context.Context, publicPath string) ([]byte, error) {
	key, err := objectKey(publicPath)
	if err != nil {
		return nil, err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", entity.ErrImageNotFound, publicPath)
		}
		return nil, err
	}
	return data, nil
}

var _ port.ArtifactStore = (*MinIOArtifactStore)(nil)

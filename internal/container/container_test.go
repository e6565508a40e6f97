package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jeevanbnj/F-Glu/config"
	app "github.com/Jeevanbnj/F-Glu/internal/application"
	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/storage"
)

type stubClassifier struct{ closed bool }

func (s *stubClassifier) Classes() []string { return entity.DefaultClasses }

func (s *stubClassifier) Predict(context.Context, *entity.InputImage) (*entity.Inference, error) {
	return &entity.Inference{Probabilities: []float32{0, 0, 1}}, nil
}

func (s *stubClassifier) Close() error {
	s.closed = true
	return nil
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(dir, "c.db") + "?_foreign_keys=on"},
		Vision:   config.VisionConfig{ImageSize: 32},
		Uploads:  config.UploadsConfig{Dir: filepath.Join(dir, "uploads"), PublicPrefix: "/uploads", MaxSizeMB: 1},
		Auth:     config.AuthConfig{JWTSecret: "s"},
	}
}

func TestBuild(t *testing.T) {
	clf := &stubClassifier{}
	c, err := Build(context.Background(), testConfig(t), clf)
	require.NoError(t, err)

	require.NotNil(t, c.AuthService)
	require.NotNil(t, c.PatientService)
	require.NotNil(t, c.DiagnosisService)
	require.NotNil(t, c.ScreeningService)

	res, err := c.AuthService.Register(context.Background(), app.RegisterInput{Name: "Dr", Email: "dr@clinic.org", Password: "pw"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)

	require.NoError(t, c.Close())
	require.True(t, clf.closed)
}

func TestBuild_UnsupportedDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"
	clf := &stubClassifier{}

	_, err := Build(context.Background(), cfg, clf)
	require.Error(t, err)
	require.False(t, clf.closed)
}

type sizedClassifier struct{ stubClassifier }

func (sizedClassifier) InputSize() int { return 224 }

func TestInputSize(t *testing.T) {
	require.Equal(t, 320, InputSize(&stubClassifier{}, 320))
	require.Equal(t, 224, InputSize(&sizedClassifier{}, 320))
}

func TestNewArtifactStore_Local(t *testing.T) {
	store, err := NewArtifactStore(context.Background(), testConfig(t))
	require.NoError(t, err)
	require.IsType(t, &storage.LocalArtifactStore{}, store)
}

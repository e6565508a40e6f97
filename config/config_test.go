package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "glaucoma.db?_foreign_keys=on", cfg.Database.DSN)
	require.Equal(t, 320, cfg.Vision.ImageSize)
	require.Equal(t, "/uploads", cfg.Uploads.PublicPrefix)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	require.True(t, cfg.Auth.Required)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.Service.AllowOrigins)
	require.Equal(t, "0.0.0.0:8000", cfg.Service.Addr())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	toml := `
log_level = "debug"

[service]
port = 9090

[vision]
image_size = 224
quality_gate = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644))
	t.Setenv("GLAUCOMA_UPLOADS_DIR", "/tmp/fundus")
	t.Setenv("TELEGRAM_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 9090, cfg.Service.Port)
	require.Equal(t, 224, cfg.Vision.ImageSize)
	require.True(t, cfg.Vision.QualityGate)
	require.Equal(t, "/tmp/fundus", cfg.Uploads.Dir)
	require.Equal(t, "token", cfg.TelegramToken)
}

func TestLoad_PostgresDSNFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GLAUCOMA_DATABASE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "clinic")

	cfg, err := Load()
	require.NoError(t, err)
	require.Contains(t, cfg.Database.DSN, "host=db")
	require.Contains(t, cfg.Database.DSN, "dbname=clinic")
	require.NotContains(t, cfg.Database.DSN, "glaucoma.db")
}

func TestLoad_ExplicitDSNWins(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GLAUCOMA_DATABASE_DRIVER", "postgres")
	t.Setenv("GLAUCOMA_DATABASE_DSN", "host=primary dbname=screening")
	t.Setenv("DB_HOST", "db")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "host=primary dbname=screening", cfg.Database.DSN)
}

func TestDefaultDSN(t *testing.T) {
	t.Setenv("DB_HOST", "pg")
	require.Equal(t, "glaucoma.db?_foreign_keys=on", DefaultDSN("sqlite"))
	require.Contains(t, DefaultDSN("postgres"), "host=pg")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "mysql"},
		Vision:   VisionConfig{ImageSize: 320},
		Uploads:  UploadsConfig{Dir: "uploads"},
	}
	require.Error(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	require.NoError(t, cfg.Validate())

	cfg.MinIO.Enabled = true
	require.Error(t, cfg.Validate())
}

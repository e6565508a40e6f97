package container

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Jeevanbnj/F-Glu/config"
	app "github.com/Jeevanbnj/F-Glu/internal/application"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/auth"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/storage"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/vision"
)

// Dependencies внешние зависимости сервисов приложения.
type Dependencies struct {
	Users      port.UserRepository
	Doctors    port.DoctorRepository
	Patients   port.PatientRepository
	Records    port.RecordRepository
	Dashboard  port.DashboardRepository
	Classifier port.Classifier
	Store      port.ArtifactStore
	Hasher     port.PasswordHasher
	Tokens     port.TokenIssuer

	ImageSize     int
	QualityGate   bool
	MaxUploadSize int64
}

type Container struct {
	UserService      *app.UserService
	AuthService      *app.AuthService
	PatientService   *app.PatientService
	RecordService    *app.RecordService
	DashboardService *app.DashboardService
	UploadService    *app.UploadService
	DiagnosisService *app.DiagnosisService
	ScreeningService *app.ScreeningService

	closers []func() error
}

func New(deps Dependencies) *Container {
	userService := app.NewUserService(deps.Users)
	diagnosisService := NewDiagnosisService(deps.Classifier, deps.Store, deps.ImageSize, deps.QualityGate)

	return &Container{
		UserService:      userService,
		AuthService:      app.NewAuthService(deps.Doctors, deps.Hasher, deps.Tokens),
		PatientService:   app.NewPatientService(deps.Patients, deps.Doctors),
		RecordService:    app.NewRecordService(deps.Records),
		DashboardService: app.NewDashboardService(deps.Dashboard),
		UploadService:    app.NewUploadService(deps.Store, deps.MaxUploadSize),
		DiagnosisService: diagnosisService,
		ScreeningService: app.NewScreeningService(userService, diagnosisService),
	}
}

// NewDiagnosisService собирает конвейер диагностики. Его использует и CLI,
// которому база данных не нужна.
func NewDiagnosisService(clf port.Classifier, store port.ArtifactStore, imageSize int, qualityGate bool) *app.DiagnosisService {
	svc := app.NewDiagnosisService(
		vision.NewLoader(imageSize),
		clf,
		vision.GradCAMExplainer{},
		vision.NewCompositor(),
		store,
	)
	if qualityGate {
		svc.WithQualityGate(vision.NewQualityGate())
	}
	return svc
}

// InputSize сторона входа модели, если классификатор её сообщает.
func InputSize(clf port.Classifier, fallback int) int {
	if sized, ok := clf.(interface{ InputSize() int }); ok && sized.InputSize() > 0 {
		return sized.InputSize()
	}
	return fallback
}

// NewArtifactStore выбирает MinIO или локальный каталог загрузок.
func NewArtifactStore(ctx context.Context, cfg *config.Config) (port.ArtifactStore, error) {
	if !cfg.MinIO.Enabled {
		return storage.NewLocalArtifactStore(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix), nil
	}

	store, err := storage.NewMinIOArtifactStore(ctx,
		cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey,
		cfg.MinIO.Bucket, cfg.MinIO.UseSSL, cfg.MinIO.PublicBase)
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	log.WithField("bucket", cfg.MinIO.Bucket).Info("artifacts are stored in minio")
	return store, nil
}

// Build поднимает базу, хранилища и сервисы по конфигурации.
// Классификатор создаётся снаружи. После успешной сборки его закрывает
// Container.Close, при ошибке он остаётся на вызывающем.
func Build(ctx context.Context, cfg *config.Config, clf port.Classifier) (*Container, error) {
	db, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	closers := []func() error{closeDB(db)}

	fail := func(err error) (*Container, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	if err := storage.Migrate(db); err != nil {
		return fail(fmt.Errorf("migrate: %w", err))
	}

	store, err := NewArtifactStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}

	var users port.UserRepository = storage.NewMemoryUserRepository()
	if cfg.Redis.Enabled {
		redisUsers, err := storage.NewRedisUserRepository(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.StateTTL)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, redisUsers.Close)
		users = redisUsers
	}

	c := New(Dependencies{
		Users:         users,
		Doctors:       storage.NewDoctorRepository(db),
		Patients:      storage.NewPatientRepository(db),
		Records:       storage.NewRecordRepository(db),
		Dashboard:     storage.NewDashboardRepository(db),
		Classifier:    clf,
		Store:         store,
		Hasher:        auth.NewBcryptHasher(),
		Tokens:        NewTokenService(cfg),
		ImageSize:     InputSize(clf, cfg.Vision.ImageSize),
		QualityGate:   cfg.Vision.QualityGate,
		MaxUploadSize: cfg.Uploads.MaxSizeMB << 20,
	})
	c.closers = append([]func() error{clf.Close}, closers...)
	return c, nil
}

// NewTokenService JWT сервис по настройкам auth.
func NewTokenService(cfg *config.Config) *auth.JWTService {
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		log.Warn("auth.jwt_secret is empty, using an insecure development secret")
		secret = "dev-secret-change-me"
	}
	return auth.NewJWTService(secret, cfg.Auth.TokenTTL)
}

// Close освобождает ресурсы в обратном порядке.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func closeDB(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}

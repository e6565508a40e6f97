package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

// OverlayPrefix префикс имени файла с наложением Grad-CAM.
const OverlayPrefix = "gradcam_"

// DiagnosisService прогоняет снимок через конвейер:
// загрузка -> классификация -> (Grad-CAM и наложение).
type DiagnosisService struct {
	loader     port.ImageLoader
	classifier port.Classifier
	explainer  port.Explainer
	compositor port.OverlayCompositor
	store      port.ArtifactStore
	quality    port.QualityGate
}

// NewDiagnosisService создаёт сервис диагностики без проверки качества.
func NewDiagnosisService(
	loader port.ImageLoader,
	classifier port.Classifier,
	explainer port.Explainer,
	compositor port.OverlayCompositor,
	store port.ArtifactStore,
) *DiagnosisService {
	return &DiagnosisService{
		loader:     loader,
		classifier: classifier,
		explainer:  explainer,
		compositor: compositor,
		store:      store,
	}
}

// WithQualityGate включает проверку качества снимка перед классификацией.
func (s *DiagnosisService) WithQualityGate(gate port.QualityGate) *DiagnosisService {
	s.quality = gate
	return s
}

// DiagnoseFile диагностика снимка с диска.
func (s *DiagnosisService) DiagnoseFile(ctx context.Context, imagePath string, withOverlay bool) (*entity.Diagnosis, error) {
	if strings.TrimSpace(imagePath) == "" {
		return nil, entity.ErrNoImage
	}

	img, err := s.loader.Load(imagePath)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, img, withOverlay)
}

// Diagnose диагностика снимка, присланного байтами.
func (s *DiagnosisService) Diagnose(ctx context.Context, name string, data []byte, withOverlay bool) (*entity.Diagnosis, error) {
	if len(data) == 0 {
		return nil, entity.ErrNoImage
	}

	img, err := s.loader.Decode(path.Base(name), data)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, img, withOverlay)
}

// DiagnoseStored диагностика ранее загруженного снимка по публичному пути.
func (s *DiagnosisService) DiagnoseStored(ctx context.Context, publicPath string, withOverlay bool) (*entity.Diagnosis, error) {
	if strings.TrimSpace(publicPath) == "" {
		return nil, entity.ErrNoImage
	}

	data, err := s.store.Get(ctx, publicPath)
	if err != nil {
		return nil, err
	}
	return s.Diagnose(ctx, path.Base(publicPath), data, withOverlay)
}

func (s *DiagnosisService) run(ctx context.Context, img *entity.InputImage, withOverlay bool) (*entity.Diagnosis, error) {
	logger := log.WithField("image", img.Name)
	logger.Debug("image loaded")

	if s.quality != nil {
		if err := s.quality.Check(qualitySource(img)); err != nil {
			return nil, err
		}
	}

	inf, err := s.classifier.Predict(ctx, img)
	if err != nil {
		if errors.Is(err, entity.ErrModelLoad) {
			return nil, err
		}
		return nil, fmt.Errorf("inference: %w", err)
	}

	pred, err := entity.NewPrediction(s.classifier.Classes(), inf.Probabilities)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}
	logger.WithFields(log.Fields{
		"label":      pred.Label,
		"confidence": pred.FormatConfidence(),
	}).Debug("predicted")

	diagnosis := &entity.Diagnosis{Source: img.Name, Prediction: pred}
	if !withOverlay {
		return diagnosis, nil
	}

	heatmap, err := s.explainer.Explain(inf.Features, pred.Index)
	if err != nil {
		return nil, err
	}

	overlay, err := s.compositor.Compose(img.Raw, heatmap)
	if err != nil {
		return nil, fmt.Errorf("compose overlay: %w", err)
	}

	overlayPath, data, err := s.store.SaveImage(ctx, OverlayPrefix+img.Name, overlay)
	if err != nil {
		return nil, err
	}
	diagnosis.OverlayPath = overlayPath
	diagnosis.Overlay = data

	logger.WithField("overlay", overlayPath).Debug("overlay written")
	return diagnosis, nil
}

func qualitySource(img *entity.InputImage) image.Image {
	if img.Original != nil {
		return img.Original
	}
	return img.Raw
}

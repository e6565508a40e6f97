package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

// ONNXClassifier классификатор на ONNX Runtime. Модель загружается один
// раз; сессия не допускает параллельных запусков, поэтому Predict
// сериализован мьютексом.
type ONNXClassifier struct {
	mu       sync.Mutex
	manifest *Manifest
	target   *Layer

	session     *ort.AdvancedSession
	input       *ort.Tensor[float32]
	output      *ort.Tensor[float32]
	activations *ort.Tensor[float32]
	gradients   *ort.Tensor[float32]
}

// NewONNXClassifier загружает модель и её метаданные.
// sharedLibrary путь к libonnxruntime, пустой означает путь по умолчанию.
func NewONNXClassifier(modelPath, manifestPath, sharedLibrary string) (*ONNXClassifier, error) {
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	if sharedLibrary != "" {
		ort.SetSharedLibraryPath(sharedLibrary)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: initialize onnx environment: %v", entity.ErrModelLoad, err)
		}
	}

	c := &ONNXClassifier{manifest: manifest}
	if err := c.open(modelPath); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: %v", entity.ErrModelLoad, err)
	}

	return c, nil
}

func (c *ONNXClassifier) open(modelPath string) error {
	var err error
	c.input, err = ort.NewEmptyTensor[float32](ort.NewShape(c.manifest.InputShape...))
	if err != nil {
		return fmt.Errorf("create input tensor: %w", err)
	}
	c.output, err = ort.NewEmptyTensor[float32](ort.NewShape(c.manifest.OutputShape...))
	if err != nil {
		return fmt.Errorf("create output tensor: %w", err)
	}

	outputNames := []string{c.manifest.OutputName}
	outputs := []ort.ArbitraryTensor{c.output}

	target, err := c.manifest.TargetLayer()
	switch {
	case err == nil:
		shape := target.OutputShape
		c.activations, err = ort.NewEmptyTensor[float32](ort.NewShape(shape...))
		if err != nil {
			return fmt.Errorf("create activation tensor: %w", err)
		}
		gradShape := []int64{1, int64(len(c.manifest.Classes)), shape[1], shape[2], shape[3]}
		c.gradients, err = ort.NewEmptyTensor[float32](ort.NewShape(gradShape...))
		if err != nil {
			return fmt.Errorf("create gradient tensor: %w", err)
		}
		c.target = target
		outputNames = append(outputNames, target.ActivationOutput, target.GradientOutput)
		outputs = append(outputs, c.activations, c.gradients)
	case errors.Is(err, entity.ErrNoConvLayer):
		log.WithError(err).Warn("model has no Grad-CAM layer, explanations are disabled")
	default:
		return err
	}

	c.session, err = ort.NewAdvancedSession(modelPath,
		[]string{c.manifest.InputName}, outputNames,
		[]ort.ArbitraryTensor{c.input}, outputs, nil)
	if err != nil {
		return fmt.Errorf("create onnx session: %w", err)
	}

	log.WithFields(log.Fields{
		"model":   modelPath,
		"classes": c.manifest.Classes,
		"layer":   c.targetName(),
	}).Info("classifier loaded")
	return nil
}

// Manifest метаданные загруженной модели.
func (c *ONNXClassifier) Manifest() *Manifest {
	return c.manifest
}

// InputSize сторона квадратного входа модели.
func (c *ONNXClassifier) InputSize() int {
	return c.manifest.ImageSize
}

// Classes метки классов в порядке выхода модели.
func (c *ONNXClassifier) Classes() []string {
	return c.manifest.Classes
}

// Predict выполняет один прямой проход.
func (c *ONNXClassifier) Predict(ctx context.Context, input *entity.InputImage) (*entity.Inference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, errors.New("classifier is closed")
	}

	data := c.input.GetData()
	if len(input.Tensor) != len(data) {
		return nil, fmt.Errorf("input has %d values, model expects %d", len(input.Tensor), len(data))
	}
	copy(data, input.Tensor)

	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	inference := &entity.Inference{
		Probabilities: append([]float32(nil), c.output.GetData()...),
	}
	if c.target != nil {
		inference.Features = c.features()
	}
	return inference, nil
}

func (c *ONNXClassifier) features() *entity.FeatureMaps {
	shape := c.target.OutputShape
	h, w, k := int(shape[1]), int(shape[2]), int(shape[3])
	size := h * w * k

	grads := c.gradients.GetData()
	perClass := make([][]float32, len(c.manifest.Classes))
	for i := range perClass {
		perClass[i] = append([]float32(nil), grads[i*size:(i+1)*size]...)
	}

	return &entity.FeatureMaps{
		Layer:       c.target.Name,
		Height:      h,
		Width:       w,
		Channels:    k,
		Activations: append([]float32(nil), c.activations.GetData()...),
		Gradients:   perClass,
	}
}

func (c *ONNXClassifier) targetName() string {
	if c.target == nil {
		return ""
	}
	return c.target.Name
}

// Close освобождает сессию и тензоры.
func (c *ONNXClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.Destroy()
		c.session = nil
	}
	for _, t := range []*ort.Tensor[float32]{c.input, c.output, c.activations, c.gradients} {
		if t != nil {
			t.Destroy()
		}
	}
	c.input, c.output, c.activations, c.gradients = nil, nil, nil, nil

	if ort.IsInitialized() {
		return ort.DestroyEnvironment()
	}
	return nil
}

var _ port.Classifier = (*ONNXClassifier)(nil)

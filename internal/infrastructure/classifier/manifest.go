package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

// Layer описание слоя сети в порядке следования.
type Layer struct {
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	ActivationOutput string  `json:"activation_output,omitempty"`
	GradientOutput   string  `json:"gradient_output,omitempty"`
	OutputShape      []int64 `json:"output_shape,omitempty"` // [1, h, w, k]
}

// IsConv сообщает, является ли слой свёрточным.
func (l Layer) IsConv() bool {
	switch strings.ToLower(l.Type) {
	case "conv2d", "conv":
		return true
	}
	return false
}

// Manifest метаданные экспортированной модели.
type Manifest struct {
	InputName    string   `json:"input_name"`
	InputShape   []int64  `json:"input_shape"`
	OutputName   string   `json:"output_name"`
	OutputShape  []int64  `json:"output_shape"`
	Classes      []string `json:"classes"`
	ImageSize    int      `json:"image_size"`
	Layers       []Layer  `json:"layers"`
	GradCAMLayer string   `json:"gradcam_layer,omitempty"`
}

// LoadManifest читает и проверяет файл метаданных.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %v", entity.ErrModelLoad, err)
	}
	return ParseManifest(data)
}

// ParseManifest разбирает метаданные и заполняет значения по умолчанию.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %v", entity.ErrModelLoad, err)
	}
	if err := m.normalize(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrModelLoad, err)
	}
	return &m, nil
}

func (m *Manifest) normalize() error {
	if m.InputName == "" {
		m.InputName = "input"
	}
	if m.OutputName == "" {
		m.OutputName = "output"
	}
	if len(m.Classes) == 0 {
		m.Classes = append([]string(nil), entity.DefaultClasses...)
	}
	for _, c := range m.Classes {
		if !entity.Stage(c).Valid() {
			return fmt.Errorf("unsupported class %q", c)
		}
	}

	if len(m.InputShape) != 4 || m.InputShape[0] != 1 || m.InputShape[3] != 3 || m.InputShape[1] != m.InputShape[2] {
		return fmt.Errorf("input shape %v is not [1,S,S,3]", m.InputShape)
	}
	if m.ImageSize == 0 {
		m.ImageSize = int(m.InputShape[1])
	}
	if int64(m.ImageSize) != m.InputShape[1] {
		return fmt.Errorf("image_size %d does not match input shape %v", m.ImageSize, m.InputShape)
	}

	if len(m.OutputShape) == 0 {
		m.OutputShape = []int64{1, int64(len(m.Classes))}
	}
	if len(m.OutputShape) != 2 || m.OutputShape[0] != 1 || m.OutputShape[1] != int64(len(m.Classes)) {
		return fmt.Errorf("output shape %v does not match %d classes", m.OutputShape, len(m.Classes))
	}
	return nil
}

// TargetLayer слой для Grad-CAM. Явно заданный при экспорте gradcam_layer
// имеет приоритет, иначе берётся последний свёрточный слой с выходами
// активаций и градиентов.
func (m *Manifest) TargetLayer() (*Layer, error) {
	if m.GradCAMLayer != "" {
		for i := range m.Layers {
			l := m.Layers[i]
			if l.Name != m.GradCAMLayer {
				continue
			}
			if !l.IsConv() {
				return nil, fmt.Errorf("%w: layer %q has type %q", entity.ErrNoConvLayer, l.Name, l.Type)
			}
			if err := l.checkOutputs(); err != nil {
				return nil, err
			}
			return &l, nil
		}
		return nil, fmt.Errorf("%w: layer %q is not in the manifest", entity.ErrNoConvLayer, m.GradCAMLayer)
	}

	for i := len(m.Layers) - 1; i >= 0; i-- {
		l := m.Layers[i]
		if !l.IsConv() {
			continue
		}
		if err := l.checkOutputs(); err != nil {
			return nil, err
		}
		return &l, nil
	}

	return nil, entity.ErrNoConvLayer
}

func (l Layer) checkOutputs() error {
	if l.ActivationOutput == "" || l.GradientOutput == "" {
		return fmt.Errorf("%w: layer %q has no exported activation/gradient outputs", entity.ErrNoConvLayer, l.Name)
	}
	if len(l.OutputShape) != 4 || l.OutputShape[0] != 1 {
		return fmt.Errorf("%w: layer %q output shape %v is not [1,h,w,k]", entity.ErrNoConvLayer, l.Name, l.OutputShape)
	}
	for _, d := range l.OutputShape[1:] {
		if d <= 0 {
			return fmt.Errorf("%w: layer %q output shape %v has empty dimension", entity.ErrNoConvLayer, l.Name, l.OutputShape)
		}
	}
	return nil
}

package entity

// Diagnosis итог работы конвейера: предсказание и путь к наложению.
type Diagnosis struct {
	Source      string      `json:"source"`
	Prediction  *Prediction `json:"prediction"`
	OverlayPath string      `json:"overlay_path,omitempty"`
	Overlay     []byte      `json:"-"` // закодированное наложение, если оно строилось
}

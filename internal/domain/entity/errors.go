package entity

import "errors"

// Ошибки предметной области. Слои выше оборачивают их через %w и
// сопоставляют через errors.Is.
var (
	ErrNoImage            = errors.New("no image provided")
	ErrInvalidInput       = errors.New("invalid input")
	ErrImageNotFound      = errors.New("image not found")
	ErrDecodeImage        = errors.New("failed to decode image")
	ErrLowQuality         = errors.New("image failed quality gate")
	ErrModelLoad          = errors.New("failed to load classifier")
	ErrNoConvLayer        = errors.New("no convolutional layer found")
	ErrOutputNotWritable  = errors.New("output directory is not writable")
	ErrNotFound           = errors.New("record not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

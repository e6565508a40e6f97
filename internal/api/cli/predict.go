package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Jeevanbnj/F-Glu/config"
	"github.com/Jeevanbnj/F-Glu/internal/container"
	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/classifier"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/storage"
)

// Коды ошибок в строке "ERROR|<код>".
const (
	CodeNoImage           = "NO_IMAGE"
	CodeImageNotFound     = "IMAGE_NOT_FOUND"
	CodeDecodeFailed      = "DECODE_FAILED"
	CodeModelLoadFailed   = "MODEL_LOAD_FAILED"
	CodeNoConvLayer       = "NO_CONV_LAYER"
	CodeOutputNotWritable = "OUTPUT_NOT_WRITABLE"
	CodeLowQuality        = "LOW_QUALITY"
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeUsage             = "USAGE"
	CodeInferenceFailed   = "INFERENCE_FAILED"
)

// ClassifierFactory загружает модель. Вызывается только после проверки аргумента.
type ClassifierFactory func(cfg *config.Config) (port.Classifier, error)

// LoadONNXClassifier фабрика по умолчанию: ONNX модель и её манифест из конфигурации.
func LoadONNXClassifier(cfg *config.Config) (port.Classifier, error) {
	return classifier.NewONNXClassifier(cfg.Model.Path, cfg.Model.MetadataPath, cfg.Model.SharedLibrary)
}

type Options struct {
	Config        *config.Config // nil означает config.Load()
	NewClassifier ClassifierFactory
	Stdout        io.Writer
	Stderr        io.Writer
}

// codedError ошибка, уже сопоставленная с кодом вывода.
type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string { return e.code + ": " + e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// ErrorCode сопоставляет ошибку конвейера с кодом вывода.
func ErrorCode(err error) string {
	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code
	}

	switch {
	case errors.Is(err, entity.ErrNoImage):
		return CodeNoImage
	case errors.Is(err, entity.ErrImageNotFound):
		return CodeImageNotFound
	case errors.Is(err, entity.ErrDecodeImage):
		return CodeDecodeFailed
	case errors.Is(err, entity.ErrModelLoad):
		return CodeModelLoadFailed
	case errors.Is(err, entity.ErrNoConvLayer):
		return CodeNoConvLayer
	case errors.Is(err, entity.ErrOutputNotWritable):
		return CodeOutputNotWritable
	case errors.Is(err, entity.ErrLowQuality):
		return CodeLowQuality
	}
	return CodeInferenceFailed
}

// NewPredictCommand команда predict <image_path>.
// В stdout попадает только строка результата, журнал пишется в stderr.
func NewPredictCommand(opts Options) *cobra.Command {
	var (
		noGradCAM   bool
		qualityGate bool
		uploadsDir  string
	)

	cmd := &cobra.Command{
		Use:           "predict <image_path>",
		Short:         "Classify a fundus image and write a Grad-CAM overlay",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
				return entity.ErrNoImage
			}
			imagePath := args[0]

			// Путь проверяем до загрузки модели.
			if info, err := os.Stat(imagePath); err != nil || info.IsDir() {
				return fmt.Errorf("%w: %s", entity.ErrImageNotFound, imagePath)
			}

			cfg := opts.Config
			if cfg == nil {
				loaded, err := config.Load()
				if err != nil {
					return &codedError{code: CodeConfigInvalid, err: err}
				}
				cfg = loaded
			}
			config.SetupLogging(cfg.LogLevel)
			if uploadsDir != "" {
				cfg.Uploads.Dir = uploadsDir
			}

			newClassifier := opts.NewClassifier
			if newClassifier == nil {
				newClassifier = LoadONNXClassifier
			}
			clf, err := newClassifier(cfg)
			if err != nil {
				if !errors.Is(err, entity.ErrModelLoad) {
					err = fmt.Errorf("%w: %v", entity.ErrModelLoad, err)
				}
				return err
			}
			defer clf.Close()

			store := storage.NewLocalArtifactStore(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix)
			svc := container.NewDiagnosisService(clf, store, container.InputSize(clf, cfg.Vision.ImageSize), qualityGate)

			d, err := svc.DiagnoseFile(cmd.Context(), imagePath, !noGradCAM)
			if err != nil {
				return err
			}

			line := string(d.Prediction.Label) + "|" + d.Prediction.FormatConfidence()
			if !noGradCAM {
				line += "|" + d.OverlayPath
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noGradCAM, "no-gradcam", false, "skip the Grad-CAM overlay")
	cmd.Flags().BoolVar(&qualityGate, "quality-gate", false, "reject blurred, tiny or badly exposed images")
	cmd.Flags().StringVar(&uploadsDir, "uploads-dir", "", "directory for overlays (overrides uploads.dir)")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &codedError{code: CodeUsage, err: err}
	})

	if opts.Stdout != nil {
		cmd.SetOut(opts.Stdout)
	}
	if opts.Stderr != nil {
		cmd.SetErr(opts.Stderr)
	}
	return cmd
}

// Execute запускает predict и возвращает код выхода процесса.
func Execute(ctx context.Context, args []string, opts Options) int {
	cmd := NewPredictCommand(opts)
	if args == nil {
		// nil заставил бы cobra взять os.Args.
		args = []string{}
	}
	cmd.SetArgs(splitImageArgs(cmd, args))

	if err := cmd.ExecuteContext(ctx); err != nil {
		code := ErrorCode(err)
		log.WithError(err).WithField("code", code).Error("predict failed")
		fmt.Fprintln(cmd.OutOrStdout(), "ERROR|"+code)
		return 1
	}
	return 0
}

// splitImageArgs отделяет известные флаги от позиционных аргументов через "--".
// Всё остальное, включая "-scan.png" и "--help", считается путём к снимку.
func splitImageArgs(cmd *cobra.Command, args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		name, _, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		flag := cmd.Flags().Lookup(name)
		if !strings.HasPrefix(arg, "--") || flag == nil {
			positional = append(positional, arg)
			continue
		}

		flags = append(flags, arg)
		if !hasValue && flag.Value.Type() != "bool" && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return append(append(flags, "--"), positional...)
}

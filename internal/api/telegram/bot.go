package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	app "github.com/Jeevanbnj/F-Glu/internal/application"
	"github.com/Jeevanbnj/F-Glu/internal/container"
	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот для скрининга глаукомы по снимку глазного дна.

📸 Отправьте снимок, и я определю стадию и покажу карту Grad-CAM.

📋 Команды:
/check — начать проверку снимка
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте /check
2️⃣ Пришлите снимок глазного дна
3️⃣ Вы получите стадию (normal / early / advanced), уверенность модели и снимок с подсветкой значимых областей

💡 Рекомендации:
• Диск зрительного нерва должен быть в кадре
• Снимок должен быть чётким, без бликов
• Результат не заменяет осмотр врача

📋 Команды:
/check — начать проверку
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте снимок глазного дна для проверки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendCheck       = "📸 Сначала отправьте /check, затем снимок глазного дна."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю снимок..."
	msgBusy            = "⏳ Предыдущий снимок ещё обрабатывается."
	msgLowQuality      = "⚠️ Снимок слишком тёмный, размытый или маленький. Попробуйте другой."
	msgDecodeError     = "⚠️ Не удалось прочитать изображение. Пришлите JPEG или PNG."
	msgProcessingError = "⚠️ Не удалось обработать снимок. Попробуйте позже."
)

var stageTitles = map[entity.Stage]string{
	entity.StageNormal:   "✅ Признаков глаукомы не найдено (normal)",
	entity.StageEarly:    "🟡 Ранняя стадия глаукомы (early)",
	entity.StageAdvanced: "🔴 Выраженная стадия глаукомы (advanced)",
}

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	users     *app.UserService
	screening *app.ScreeningService
	client    *http.Client
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.WithField("account", api.Self.UserName).Info("telegram bot authorized")

	return &Bot{
		api:       api,
		users:     c.UserService,
		screening: c.ScreeningService,
		client:    http.DefaultClient,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, msg.Photo[len(msg.Photo)-1].FileID)
		return
	}
	// Снимок, отправленный файлом, приходит без сжатия
	if msg.Document != nil && isImageMime(msg.Document.MimeType) {
		b.handlePhoto(ctx, msg, msg.Document.FileID)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendCheck)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		_, err = b.users.BeginCheck(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("update dialogue state")
	}
}

// handlePhoto скачивает снимок и прогоняет его через диагностику
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	chatID := msg.Chat.ID
	user, err := b.users.Get(ctx, msg.From.ID, chatID)
	if err != nil {
		log.WithError(err).Error("get user")
		return
	}
	switch user.State {
	case entity.StateProcessing:
		b.sendMessage(chatID, msgBusy)
		return
	case entity.StateAwaitingFundus:
	default:
		b.sendMessage(chatID, msgSendCheck)
		return
	}

	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.WithError(err).Error("download photo")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	diagnosis, err := b.screening.AcceptFundusPhoto(ctx, msg.From.ID, chatID, imageData)
	if err != nil {
		log.WithError(err).WithField("user_id", msg.From.ID).Warn("screening failed")
		b.sendMessage(chatID, errorMessage(err))
		return
	}

	caption := FormatDiagnosis(diagnosis)
	if len(diagnosis.Overlay) == 0 {
		b.sendMessage(chatID, caption)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: path.Base(diagnosis.OverlayPath), Bytes: diagnosis.Overlay})
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		log.WithError(err).Error("send overlay")
		b.sendMessage(chatID, caption)
	}
}

// FormatDiagnosis текст ответа со стадией и уверенностью
func FormatDiagnosis(d *entity.Diagnosis) string {
	title, ok := stageTitles[d.Prediction.Label]
	if !ok {
		title = string(d.Prediction.Label)
	}
	text := fmt.Sprintf("%s\nУверенность модели: %s", title, d.Prediction.FormatConfidence())
	if d.OverlayPath != "" {
		text += "\nКрасным отмечены области, повлиявшие на решение."
	}
	return text
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrLowQuality):
		return msgLowQuality
	case errors.Is(err, entity.ErrDecodeImage):
		return msgDecodeError
	case errors.Is(err, app.ErrNotAwaitingFundus):
		return msgSendCheck
	}
	return msgProcessingError
}

func isImageMime(mime string) bool {
	switch mime {
	case "image/jpeg", "image/png", "image/bmp", "image/tiff", "image/webp":
		return true
	}
	return false
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).Error("send message")
	}
}

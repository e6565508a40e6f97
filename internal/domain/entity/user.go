package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu       UserState = "main_menu"       // В главном меню
	StateAwaitingFundus UserState = "awaiting_fundus" // Ожидание снимка глазного дна
	StateProcessing     UserState = "processing"      // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID     int64     `json:"id"`      // Telegram User ID
	ChatID int64     `json:"chat_id"` // Telegram Chat ID
	State  UserState `json:"state"`   // Текущее состояние пользователя
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

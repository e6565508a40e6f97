package port

// PasswordHasher хеширование и проверка паролей
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer выпускает токены доступа для врачей
type TokenIssuer interface {
	Generate(doctorID uint, email string) (string, error)
}

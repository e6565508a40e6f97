package app

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/domain/port"
)

// RegisterInput данные регистрации врача.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	Qualification   *string
	Specialization  *string
	ExperienceYears *int
	Hospital        *string
	ClinicAddress   *string
	City            *string
	ClinicPhone     *string
}

// AuthResult врач и выданный ему токен.
type AuthResult struct {
	Doctor *entity.Doctor
	Token  string
}

type AuthService struct {
	doctors port.DoctorRepository
	hasher  port.PasswordHasher
	tokens  port.TokenIssuer
}

func NewAuthService(doctors port.DoctorRepository, hasher port.PasswordHasher, tokens port.TokenIssuer) *AuthService {
	return &AuthService{doctors: doctors, hasher: hasher, tokens: tokens}
}

// Register создаёт врача. Повторный email даёт ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", entity.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: malformed email", entity.ErrInvalidInput)
	}

	_, err := s.doctors.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, entity.ErrEmailTaken
	case !errors.Is(err, entity.ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	doctor := &entity.Doctor{
		Name:            name,
		Email:           email,
		PasswordHash:    hash,
		Qualification:   in.Qualification,
		Specialization:  in.Specialization,
		ExperienceYears: in.ExperienceYears,
		Hospital:        in.Hospital,
		ClinicAddress:   in.ClinicAddress,
		City:            in.City,
		ClinicPhone:     in.ClinicPhone,
	}
	// Уникальный индекс ловит гонку двух регистраций с одним адресом.
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}

	return s.issue(doctor)
}

// Login проверяет пароль. Любая неудача даёт ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	doctor, err := s.doctors.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, err
	}

	if password == "" || !s.hasher.Compare(doctor.PasswordHash, password) {
		return nil, entity.ErrInvalidCredentials
	}

	return s.issue(doctor)
}

// Me профиль врача по идентификатору из токена.
func (s *AuthService) Me(ctx context.Context, doctorID uint) (*entity.Doctor, error) {
	return s.doctors.GetByID(ctx, doctorID)
}

func (s *AuthService) issue(doctor *entity.Doctor) (*AuthResult, error) {
	token, err := s.tokens.Generate(doctor.ID, doctor.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Doctor: doctor, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

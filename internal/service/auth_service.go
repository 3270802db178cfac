package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"skycast/internal/domain"
	"skycast/internal/repository"
)

// AuthService coordina registro y login con contraseña.
type AuthService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

var (
	ErrIdentifierRequired = errors.New("email or mobile required")
	ErrPasswordRequired   = errors.New("password required")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

func NewAuthService(logger *zap.Logger, users repository.UserRepository) *AuthService {
	return &AuthService{
		logger: logger,
		users:  users,
	}
}

// SignupInput lleva los campos del formulario de registro.
// Email y Mobile son alternativos; al menos uno debe estar presente.
type SignupInput struct {
	Email    string
	Mobile   string
	Password string
}

// Signup valida el identificador, hashea la contraseña con bcrypt y crea la
// fila. Un duplicado (pre-chequeo o carrera perdida contra el índice único)
// devuelve ErrUserExists.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	email := strings.TrimSpace(input.Email)
	mobile := strings.TrimSpace(input.Mobile)
	if email == "" && mobile == "" {
		return domain.User{}, ErrIdentifierRequired
	}
	// La contraseña se hashea tal cual: sin trim ni normalización.
	if input.Password == "" {
		return domain.User{}, ErrPasswordRequired
	}

	if existing := s.lookupExisting(ctx, email, mobile); existing {
		return domain.User{}, ErrUserExists
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		Mobile:       mobile,
		PasswordHash: string(hashBytes),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, err
	}
	return user, nil
}

// PasswordLogin autentica por email-o-mobile y contraseña. Usuario
// inexistente, cuenta solo federada (sin hash) y hash que no coincide
// devuelven todos ErrInvalidCredentials, sin distinguir el motivo.
func (s *AuthService) PasswordLogin(ctx context.Context, identifier, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if !user.HasPassword() {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ResolveSubject traduce el subject de un token verificado a su usuario.
// Un token válido cuyo email ya no existe devuelve ErrUserNotFound.
func (s *AuthService) ResolveSubject(ctx context.Context, email string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("auth service not configured")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) lookupExisting(ctx context.Context, email, mobile string) bool {
	for _, identifier := range []string{email, mobile} {
		if identifier == "" {
			continue
		}
		if _, err := s.users.GetByIdentifier(ctx, identifier); err == nil {
			return true
		}
	}
	return false
}

// Package auth отвечает за учётные записи покупателей и администратора:
// регистрацию, вход, выпуск и проверку токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/lib/password"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// AdminRepository описывает контракт для работы с учётной записью администратора.
type AdminRepository interface {
	UpsertAdmin(ctx context.Context, admin models.Admin) (int64, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	TouchAdminLogin(ctx context.Context, id int64, at time.Time) error
}

// AdminCredentials учётные данные администратора из конфига.
type AdminCredentials struct {
	Name     string
	Email    string
	Password string
}

// RegisterInput данные формы регистрации.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Address         *string
}

// Service отвечает за регистрацию, аутентификацию и валидацию JWT.
type Service struct {
	users    UserRepository
	admins   AdminRepository
	jwtMaker jwt.Maker
	admin    AdminCredentials
	log      *slog.Logger
	now      func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, admins AdminRepository, jwtMaker jwt.Maker, admin AdminCredentials, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		admins:   admins,
		jwtMaker: jwtMaker,
		admin:    admin,
		log:      log,
		now:      time.Now,
	}
}

var errInvalidCredentials = models.NewError(models.ErrAuth, "invalid email or password")

// Register создаёт покупателя и сразу выдаёт ему токен.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	const op = "auth.Register"

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, "", models.NewError(models.ErrValidation, "name, email and password are required")
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", models.NewError(models.ErrValidation, "passwords do not match")
	}
	if err := password.Validate(in.Password); err != nil {
		return nil, "", models.NewError(models.ErrValidation,
			fmt.Sprintf("password must be at least %d characters and contain upper and lower case letters and a digit", password.MinLength))
	}

	_, err := s.users.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, "", models.NewError(models.ErrConflict, "email already registered")
	case !errors.Is(err, models.ErrNotFound):
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	hash, err := password.GetHash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Address:      in.Address,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	user.ID, err = s.users.CreateUser(ctx, user)
	if errors.Is(err, models.ErrConflict) {
		return nil, "", models.NewError(models.ErrConflict, "email already registered")
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(models.UserIdentity(user.ID, user.Email))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.Int64("user_id", user.ID))
	return &user, token, nil
}

// Authenticate проверяет пароль покупателя и выдаёт токен.
func (s *Service) Authenticate(ctx context.Context, email, rawPassword string) (models.Identity, string, error) {
	const op = "auth.Authenticate"

	email = strings.TrimSpace(email)
	if s.isAdminEmail(email) {
		return models.Identity{}, "", models.NewError(models.ErrAuth, "use the admin login")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return models.Identity{}, "", errInvalidCredentials
	}
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("%s: %w", op, err)
	}
	if !user.IsActive {
		return models.Identity{}, "", errInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return models.Identity{}, "", errInvalidCredentials
	}

	identity := models.UserIdentity(user.ID, user.Email)
	token, err := s.jwtMaker.GenerateToken(identity)
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("%s: %w", op, err)
	}
	return identity, token, nil
}

// AuthenticateAdmin проверяет учётные данные администратора и отмечает время входа.
func (s *Service) AuthenticateAdmin(ctx context.Context, email, rawPassword string) (models.Identity, string, error) {
	const op = "auth.AuthenticateAdmin"

	email = strings.TrimSpace(email)
	if !s.isAdminEmail(email) {
		return models.Identity{}, "", models.NewError(models.ErrAuth, "invalid admin credentials")
	}

	admin, err := s.admins.GetAdminByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return models.Identity{}, "", models.NewError(models.ErrAuth, "invalid admin credentials")
	}
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("%s: %w", op, err)
	}
	if !admin.IsActive || password.CompareHash(admin.PasswordHash, rawPassword) != nil {
		return models.Identity{}, "", models.NewError(models.ErrAuth, "invalid admin credentials")
	}

	if err := s.admins.TouchAdminLogin(ctx, admin.ID, s.now().UTC()); err != nil {
		s.log.Warn("failed to update admin last login", slog.String("op", op), sl.Err(err))
	}

	identity := models.AdminIdentity(admin.ID, admin.Email)
	token, err := s.jwtMaker.GenerateToken(identity)
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("%s: %w", op, err)
	}
	return identity, token, nil
}

// EnsureAdmin создаёт администратора из конфига или обновляет его имя и пароль.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	const op = "auth.EnsureAdmin"

	if s.admin.Email == "" || s.admin.Password == "" {
		return fmt.Errorf("%s: admin email and password must be configured", op)
	}
	hash, err := password.GetHash(s.admin.Password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.admins.UpsertAdmin(ctx, models.Admin{
		Name:         s.admin.Name,
		Email:        s.admin.Email,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin account ensured", slog.Int64("admin_id", id))
	return nil
}

// ValidateToken проверяет JWT и возвращает Identity его владельца.
func (s *Service) ValidateToken(_ context.Context, token string) (models.Identity, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Identity{}, models.NewError(models.ErrAuth, "invalid or expired token")
	}
	identity, err := claims.Identity()
	if err != nil {
		return models.Identity{}, models.NewError(models.ErrAuth, "invalid or expired token")
	}
	return identity, nil
}

// DeleteUser удаляет покупателя вместе с заказами и подписками. Только для администратора.
func (s *Service) DeleteUser(ctx context.Context, actor models.Identity, userID int64) error {
	const op = "auth.DeleteUser"

	if !actor.IsAdmin() {
		return models.NewError(models.ErrForbidden, "admin access required")
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewError(models.ErrNotFound, "user not found")
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deleted", slog.Int64("user_id", userID), slog.Int64("admin_id", actor.ID))
	return nil
}

func (s *Service) isAdminEmail(email string) bool {
	return s.admin.Email != "" && strings.EqualFold(email, s.admin.Email)
}

package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/akademy/akademy-api/pkg/notification"
	"github.com/akademy/akademy-api/pkg/utils"
)

const defaultPasswordLength = 12

// UsersService drives the user lifecycle: account creation from signed
// agreements, password resets, and deactivation.
type UsersService struct {
	repo           UsersRepository
	notifier       *notification.NotificationManager
	passwordLength int
}

// Option configures a UsersService
type Option func(*UsersService)

// WithNotificationManager wires the manager used for welcome and
// password-reset notices. Without it notices are skipped.
func WithNotificationManager(nm *notification.NotificationManager) Option {
	return func(s *UsersService) {
		s.notifier = nm
	}
}

// WithPasswordLength overrides the generated initial password length.
func WithPasswordLength(length int) Option {
	return func(s *UsersService) {
		if length > 0 {
			s.passwordLength = length
		}
	}
}

// NewUsersService creates a new UsersService with the given options
func NewUsersService(repo UsersRepository, opts ...Option) *UsersService {
	s := &UsersService{
		repo:           repo,
		passwordLength: defaultPasswordLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateFromAgreement creates a platform user from a signed agreement,
// links the agreement to it, and sends a welcome notice with the initial
// password. Returns ErrAgreementNotFound or ErrUserAlreadyExists.
func (s *UsersService) CreateFromAgreement(ctx context.Context, agreementID uuid.UUID) (User, error) {
	agreement, err := s.repo.GetAgreement(ctx, agreementID)
	if err != nil {
		return User{}, err
	}
	if agreement.Email == "" {
		return User{}, fmt.Errorf("agreement %s has no email address", agreementID)
	}
	if agreement.UserID != nil {
		return User{}, ErrUserAlreadyExists
	}

	if _, err := s.repo.GetUserByEmail(ctx, agreement.Email); err == nil {
		return User{}, ErrUserAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return User{}, fmt.Errorf("failed to check existing user: %w", err)
	}

	password := utils.GenerateRandomString(s.passwordLength)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	roleID := agreement.RoleID
	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Email:        agreement.Email,
		FirstName:    agreement.FirstName,
		LastName:     agreement.LastName,
		RoleID:       &roleID,
		PasswordHash: hash,
	})
	if err != nil {
		return User{}, err
	}

	if err := s.repo.LinkAgreement(ctx, agreementID, user.ID); err != nil {
		return User{}, fmt.Errorf("failed to link agreement to user: %w", err)
	}

	s.send(notification.WelcomeNotice, user, map[string]string{
		"Name":     user.FirstName,
		"Email":    user.Email,
		"Password": password,
	})

	slog.Info("Created user from agreement",
		"agreementId", agreementID, "userId", user.ID, "email", utils.MaskEmail(user.Email))
	return user, nil
}

// ResetPassword generates a new password for the user, stores its hash,
// and sends a password-reset notice. Returns ErrUserNotFound.
func (s *UsersService) ResetPassword(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	password := utils.GenerateRandomString(s.passwordLength)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.send(notification.PasswordResetNotice, user, map[string]string{
		"Name":     user.FirstName,
		"Password": password,
	})

	slog.Info("Reset user password", "userId", userID, "email", utils.MaskEmail(user.Email))
	return nil
}

// Deactivate bans the user. Returns ErrUserNotFound.
func (s *UsersService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.DeactivateUser(ctx, userID); err != nil {
		return err
	}
	slog.Info("Deactivated user", "userId", userID)
	return nil
}

// send delivers a notice when a manager is wired. Delivery failures are
// logged and never fail the operation that triggered them.
func (s *UsersService) send(noticeType notification.NoticeType, user User, data map[string]string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Send(noticeType, notification.EmailSystem, notification.NotificationData{
		To:   user.Email,
		Data: data,
	})
	if err != nil {
		slog.Warn("Failed to send notice", "type", noticeType, "userId", user.ID, "err", err)
	}
}

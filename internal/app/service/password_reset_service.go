package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/logger"
	"github.com/noirparfum/noir-backend/pkg/mailer"
	"github.com/noirparfum/noir-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrResetTokenExpired = errors.New("reset token has expired")
	ErrResetTokenUsed    = errors.New("reset token has already been used")
)

const (
	// ResetTokenExpiry is how long an emailed reset link stays valid
	ResetTokenExpiry = 1 * time.Hour
	// ResetTokenLength is the byte length of the token before hex encoding
	ResetTokenLength = 32
)

type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	resetRepo repository.PasswordResetRepository
	userRepo  repository.UserRepository
	email     mailer.Sender
	store     StoreInfo
	now       func() time.Time
}

// NewPasswordResetService builds the reset flow; a nil sender means links are never delivered
func NewPasswordResetService(
	resetRepo repository.PasswordResetRepository,
	userRepo repository.UserRepository,
	email mailer.Sender,
	store StoreInfo,
) PasswordResetService {
	return &passwordResetService{
		resetRepo: resetRepo,
		userRepo:  userRepo,
		email:     email,
		store:     store,
		now:       time.Now,
	}
}

// RequestReset emails a reset link. Unknown addresses succeed silently so the
// endpoint cannot be used to probe for accounts.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for unknown email", map[string]interface{}{
				"email": email,
			})
			return nil
		}
		return err
	}

	if s.email == nil {
		logger.Warn("Password reset requested but email is not configured", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil
	}

	now := s.now()
	if err := s.resetRepo.InvalidateForUser(user.ID, now); err != nil {
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	reset := &model.PasswordReset{
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: now.Add(ResetTokenExpiry),
	}
	if err := s.resetRepo.Create(reset); err != nil {
		return err
	}

	msg, err := mailer.BuildPasswordReset(user.Email, mailer.PasswordResetEmail{
		StoreName:    s.store.Name,
		CustomerName: user.Name,
		ResetURL:     strings.TrimRight(s.store.StorefrontURL, "/") + "/reset-password?token=" + token,
		ExpiresIn:    "1 hour",
	})
	if err != nil {
		return err
	}
	if err := s.email.Send(msg); err != nil {
		logger.Error("Failed to send password reset email", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"user_id":    user.ID,
		"expires_at": reset.ExpiresAt,
	})
	return nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	reset, err := s.resetRepo.FindByTokenHash(hashResetToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	now := s.now()
	if reset.UsedAt != nil {
		return ErrResetTokenUsed
	}
	if now.After(reset.ExpiresAt) {
		return ErrResetTokenExpired
	}

	if err := util.CheckPasswordStrength(newPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(reset.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// claim the token before touching the password
	if err := s.resetRepo.MarkUsed(reset.ID, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenUsed
		}
		return err
	}

	user.PasswordHash = hashedPassword
	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	logger.Info("Password reset successful", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

// generateResetToken creates a cryptographically secure random token
func generateResetToken() (string, error) {
	bytes := make([]byte, ResetTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

package service

import (
	"context"
	"errors"

	"noteboard/internal/crypto"
	"noteboard/internal/repository"
	"noteboard/internal/totp"

	"go.uber.org/zap"
)

// Login verifies the credentials (and, for MFA-enrolled users, the one-time
// code), creates a session and returns its token alongside the outcome. An
// empty token means the attempt failed and Outcome.Result says why.
func (s *accountService) Login(ctx context.Context, email, password, otp string) (string, Outcome) {
	invalid := render(Result{Message: "Invalid email or password.", Success: boolPtr(false)})

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Failed to look up user for login", zap.Error(err))
			return "", render(Result{Message: "An error occurred while signing in."})
		}
		return "", invalid
	}

	if !crypto.SecureCompare(user.Password, crypto.HashPassword(password)) {
		return "", invalid
	}

	if user.MFA && user.Secret != nil {
		if !totp.Validate(*user.Secret, otp) {
			return "", render(Result{Message: "OTP is not valid."})
		}
	}

	token, _, err := s.sessions.Create(ctx, user)
	if err != nil {
		s.logger.Error("Failed to create session", zap.Int64("user_id", user.ID), zap.Error(err))
		return "", render(Result{Message: "An error occurred while signing in."})
	}

	s.logger.Info("User logged in successfully.", zap.Int64("user_id", user.ID))

	return token, Outcome{Redirect: "/boards"}
}

// Logout revokes the session token. Revoking an unknown token is a no-op.
func (s *accountService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"noteboard/internal/crypto"
	"noteboard/internal/models"
	"noteboard/internal/notifier"
	"noteboard/internal/repository"
	"noteboard/internal/session"
	"noteboard/internal/totp"
	"noteboard/internal/validation"

	"go.uber.org/zap"
)

var ( // Define custom errors
	ErrUnauthenticated = errors.New("unauthenticated")
)

// SessionManager is the slice of the session layer the workflow needs.
type SessionManager interface {
	Create(ctx context.Context, user *models.User) (string, *session.Session, error)
	Revalidate(ctx context.Context, token string, user *models.User) (*session.Session, error)
	Delete(ctx context.Context, token string) error
}

// AccountService orchestrates the account mutation workflow: each operation
// validates, verifies, mutates, then reports a Result or a redirect. Nothing
// escapes an operation uncaught.
type AccountService interface {
	UpdateProfile(ctx context.Context, caller Caller, form validation.ProfileForm) Outcome
	UpdatePassword(ctx context.Context, form validation.PasswordForm) Outcome
	UpdateMFA(ctx context.Context, form validation.MFAForm) Outcome
	DeleteMFA(ctx context.Context, form validation.DeleteMFAForm) Outcome
	DeleteAccount(ctx context.Context, form validation.DeleteAccountForm) Outcome
	BackupData(ctx context.Context, form validation.BackupForm) Outcome
	GetProfile(ctx context.Context, caller Caller, userID int64) (*models.User, error)
	Login(ctx context.Context, email, password, otp string) (string, Outcome)
	Logout(ctx context.Context, token string) error
}

type accountService struct {
	repo     repository.AccountRepository
	sessions SessionManager
	notify   notifier.Notifier
	logger   *zap.Logger
}

func NewAccountService(repo repository.AccountRepository, sessions SessionManager, notify notifier.Notifier, logger *zap.Logger) AccountService {
	return &accountService{
		repo:     repo,
		sessions: sessions,
		notify:   notify,
		logger:   logger,
	}
}

func (s *accountService) UpdateProfile(ctx context.Context, caller Caller, form validation.ProfileForm) Outcome {
	echo := map[string]any{"id": form.ID, "name": form.Name, "email": form.Email}

	if errs := validation.Check(form); errs != nil {
		return render(Result{Errors: errs, Data: echo, Success: boolPtr(false)})
	}

	fail := func(err error) Outcome {
		s.logger.Error("Failed to update profile", zap.Int64("user_id", form.ID), zap.Error(err))
		return render(Result{Data: echo, Message: "An error occurred while updating your account."})
	}

	// Another user already holding the email blocks the update.
	other, err := s.repo.FindByEmailExcluding(ctx, form.Email, form.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fail(err)
	}
	if other != nil {
		return render(Result{Message: "Email already exists.", Success: boolPtr(false)})
	}

	if err := s.repo.UpdateProfile(ctx, form.ID, form.Name, form.Email); err != nil {
		return fail(err)
	}

	// Editing someone else's profile reports success in place; only a
	// self-edit refreshes the session and navigates back to the profile.
	if !caller.is(form.ID) {
		return render(Result{Data: echo, Success: boolPtr(true)})
	}

	user, err := s.repo.GetByID(ctx, form.ID)
	if err != nil {
		return fail(err)
	}
	if caller.Token != "" {
		if _, err := s.sessions.Revalidate(ctx, caller.Token, user); err != nil {
			return fail(err)
		}
	}

	return Outcome{Redirect: fmt.Sprintf("/profile/%d", form.ID)}
}

func (s *accountService) UpdatePassword(ctx context.Context, form validation.PasswordForm) Outcome {
	if errs := validation.Check(form); errs != nil {
		return render(Result{Errors: errs, Success: boolPtr(false)})
	}

	fail := func(err error) Outcome {
		s.logger.Error("Failed to update password", zap.Int64("user_id", form.ID), zap.Error(err))
		return render(Result{Message: "An error occurred while updating your password."})
	}

	user, err := s.repo.GetByID(ctx, form.ID)
	if err != nil {
		return fail(err)
	}

	// Failures below echo only the attempted new password for redisplay,
	// never the current or confirm fields.
	if form.Password != form.Confirm {
		return render(Result{
			Message: "Passwords do not match.",
			Data:    map[string]string{"password": form.Password},
			Success: boolPtr(false),
		})
	}

	if !crypto.SecureCompare(user.Password, crypto.HashPassword(form.Current)) {
		return render(Result{
			Message: "Current password is incorrect.",
			Data:    map[string]string{"password": form.Password},
			Success: boolPtr(false),
		})
	}

	if err := s.repo.UpdatePassword(ctx, form.ID, crypto.HashPassword(form.Password)); err != nil {
		return fail(err)
	}

	s.notify.Notify(ctx, notifier.Event{Kind: notifier.KindPasswordChanged, UserID: user.ID, Email: user.Email})

	return render(Result{Success: boolPtr(true), Message: "Password updated successfully."})
}

func (s *accountService) UpdateMFA(ctx context.Context, form validation.MFAForm) Outcome {
	if errs := validation.Check(form); errs != nil {
		return render(Result{Errors: errs, Success: boolPtr(false)})
	}

	// The submitted code must prove the user enrolled the secret before
	// anything is written. Success is omitted here, not set to false.
	if !totp.Validate(form.Secret, form.Password) {
		return render(Result{
			Message: "OTP is not valid.",
			Data:    map[string]string{"secret": form.Secret, "password": form.Password},
		})
	}

	fail := func(err error) Outcome {
		s.logger.Error("Failed to update MFA", zap.Int64("user_id", form.ID), zap.Error(err))
		return render(Result{Message: "An error occurred while updating your MFA."})
	}

	user, err := s.repo.GetByID(ctx, form.ID)
	if err != nil {
		return fail(err)
	}

	secret := form.Secret
	if err := s.repo.UpdateMFA(ctx, form.ID, true, &secret); err != nil {
		return fail(err)
	}

	s.notify.Notify(ctx, notifier.Event{Kind: notifier.KindMFAEnabled, UserID: user.ID, Email: user.Email})

	return render(Result{
		Success: boolPtr(true),
		Message: "MFA device has been updated successfully you can refresh this page.",
	})
}

func (s *accountService) DeleteMFA(ctx context.Context, form validation.DeleteMFAForm) Outcome {
	if errs := validation.Check(form); errs != nil {
		return render(Result{Errors: errs, Success: boolPtr(false)})
	}

	fail := func(err error) Outcome {
		s.logger.Error("Failed to delete MFA", zap.Int64("user_id", form.ID), zap.Error(err))
		return render(Result{Message: "An error occurred while deleting your MFA."})
	}

	user, err := s.repo.GetByID(ctx, form.ID)
	if err != nil {
		return fail(err)
	}

	if user.Secret == nil {
		return render(Result{Message: "Secret not found.", Success: boolPtr(false)})
	}

	if !totp.Validate(*user.Secret, form.Password) {
		return render(Result{
			Message: "OTP is not valid.",
			Data:    map[string]string{"password": form.Password},
		})
	}

	if err := s.repo.UpdateMFA(ctx, form.ID, false, nil); err != nil {
		return fail(err)
	}

	s.notify.Notify(ctx, notifier.Event{Kind: notifier.KindMFADisabled, UserID: user.ID, Email: user.Email})

	return render(Result{
		Success: boolPtr(true),
		Message: "Your device has been deleted you can refresh this page.",
	})
}

func (s *accountService) BackupData(ctx context.Context, form validation.BackupForm) Outcome {
	if errs := validation.Check(form); errs != nil {
		return render(Result{Message: "Invalid user ID.", Success: boolPtr(false)})
	}

	export, err := s.repo.ExportTree(ctx, form.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return render(Result{Message: "User not found.", Success: boolPtr(false)})
		}
		s.logger.Error("Failed to back up data", zap.Int64("user_id", form.UserID), zap.Error(err))
		return render(Result{Message: "An error occurred while backing up data."})
	}

	payload, err := json.Marshal(export)
	if err != nil {
		s.logger.Error("Failed to serialize backup", zap.Int64("user_id", form.UserID), zap.Error(err))
		return render(Result{Message: "An error occurred while backing up data."})
	}

	return render(Result{Success: boolPtr(true), Data: string(payload)})
}

func (s *accountService) DeleteAccount(ctx context.Context, form validation.DeleteAccountForm) Outcome {
	if errs := validation.Check(form); errs != nil {
		return render(Result{Errors: errs, Success: boolPtr(false)})
	}

	fail := func(err error) Outcome {
		s.logger.Error("Failed to delete account", zap.Int64("user_id", form.UserID), zap.Error(err))
		return render(Result{Message: "An error occurred while deleting your account."})
	}

	// Credential match is deliberately vague on failure: the caller cannot
	// tell a wrong password from a missing user.
	user, err := s.repo.FindByIDAndPassword(ctx, form.UserID, form.Password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return render(Result{
				Message: "You are not allowed to perform this action.",
				Success: boolPtr(false),
			})
		}
		return fail(err)
	}

	if err := s.repo.DeleteByEmail(ctx, user.Email); err != nil {
		return fail(err)
	}

	s.notify.Notify(ctx, notifier.Event{Kind: notifier.KindAccountDeleted, UserID: user.ID, Email: user.Email})

	// Terminal: the caller revokes the session and clears the cookie, then
	// the browser is sent to the login page for good.
	return Outcome{Redirect: "/login", Permanent: true, ClearSession: true}
}

// GetProfile returns the record when the caller may see it, nil when they may
// not. Absence, not a permission error, is the unauthorized-read contract.
func (s *accountService) GetProfile(ctx context.Context, caller Caller, userID int64) (*models.User, error) {
	if caller.Session == nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if caller.Session.Role == "admin" || caller.Session.UserID == user.ID {
		return user, nil
	}
	return nil, nil
}

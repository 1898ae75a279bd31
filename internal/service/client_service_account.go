// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-vault-client/internal/validators"
	"github.com/MKhiriev/go-vault-client/models"
)

// Field messages for server refusals that arrive without per-field details.
const (
	msgUsernameTaken  = "Username already exists"
	msgEmailTaken     = "Email already exists"
	msgWrongPassword  = "Current password is incorrect"
	msgDeletePassword = "Password is required to delete account"
)

func (s *clientSessionService) Profile(ctx context.Context) (models.User, error) {
	epoch, err := s.sessionEpoch()
	if err != nil {
		return models.User{}, err
	}

	user, err := s.adapter.GetProfile(ctx)
	if err != nil {
		return models.User{}, s.sessionCallFailed(err, "failed to load profile")
	}

	s.replaceUser(epoch, user)
	return user, nil
}

func (s *clientSessionService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.Session, error) {
	if err := mapValidationError(s.validator.Validate(ctx, update)); err != nil {
		return models.Session{}, err
	}

	epoch, err := s.sessionEpoch()
	if err != nil {
		return models.Session{}, err
	}

	user, err := s.adapter.UpdateProfile(ctx, update)
	if err != nil {
		err = s.sessionCallFailed(err, "profile update failed")
		if errors.Is(err, ErrConflict) {
			err = withDefaultField(err, validators.FieldEmail, msgEmailTaken)
		}
		return models.Session{}, err
	}

	session, ok := s.replaceUser(epoch, user)
	if !ok {
		return models.Session{}, ErrNotAuthenticated
	}
	s.logger.Info().Int64("user_id", session.UserID).Msg("profile updated")
	return session, nil
}

func (s *clientSessionService) ChangePassword(ctx context.Context, change models.PasswordChange) error {
	if err := mapValidationError(s.validator.Validate(ctx, change)); err != nil {
		return err
	}

	if _, err := s.sessionEpoch(); err != nil {
		return err
	}

	if err := s.adapter.ChangePassword(ctx, change); err != nil {
		err = s.sessionCallFailed(err, "password change failed")
		if errors.Is(err, ErrValidation) {
			err = withDefaultField(err, validators.FieldCurrentPassword, msgWrongPassword)
		}
		return err
	}

	s.logger.Info().Msg("password changed")
	return nil
}

// DeleteAccount drops the local session only once the server confirmed the
// deletion.
func (s *clientSessionService) DeleteAccount(ctx context.Context, password string) error {
	if strings.TrimSpace(password) == "" {
		return newFieldError(ErrValidation, map[string]string{validators.FieldPassword: msgDeletePassword}, nil)
	}

	if _, err := s.sessionEpoch(); err != nil {
		return err
	}

	if err := s.adapter.DeleteAccount(ctx, password); err != nil {
		err = s.sessionCallFailed(err, "account deletion failed")
		if errors.Is(err, ErrValidation) {
			err = withDefaultField(err, validators.FieldPassword, msgWrongPassword)
		}
		return err
	}

	s.logger.Warn().Msg("account deleted")
	s.reset()
	return s.forgetToken(ctx)
}

func (s *clientSessionService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	available, err := s.adapter.UsernameAvailable(ctx, username)
	return available, mapAdapterError(err)
}

func (s *clientSessionService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	available, err := s.adapter.EmailAvailable(ctx, email)
	return available, mapAdapterError(err)
}

// explainConflict attaches the clashing field to a sign-up conflict the
// server reported without details. When the availability checks fail the
// conflict is returned as is.
func (s *clientSessionService) explainConflict(ctx context.Context, profile models.Profile, conflict error) error {
	var fe *FieldError
	if errors.As(conflict, &fe) && len(fe.Fields) > 0 {
		return conflict
	}

	fields := make(map[string]string, 2)

	usernameFree, err := s.UsernameAvailable(ctx, profile.Username)
	if err != nil {
		s.logger.Debug().Err(err).Msg("username availability check failed")
		return conflict
	}
	if !usernameFree {
		fields[validators.FieldUsername] = msgUsernameTaken
	}

	emailFree, err := s.EmailAvailable(ctx, profile.Email)
	if err != nil {
		s.logger.Debug().Err(err).Msg("email availability check failed")
		return conflict
	}
	if !emailFree {
		fields[validators.FieldEmail] = msgEmailTaken
	}

	if len(fields) == 0 {
		return conflict
	}
	return newFieldError(ErrConflict, fields, causeOf(conflict))
}

// withDefaultField puts msg on field when err is a FieldError without any
// per-field details.
func withDefaultField(err error, field, msg string) error {
	var fe *FieldError
	if !errors.As(err, &fe) || len(fe.Fields) > 0 {
		return err
	}
	return newFieldError(fe.Kind, map[string]string{field: msg}, fe.cause)
}

func causeOf(err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.cause
	}
	return err
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains the user-facing wording of the vault client.
//
// All Msg* constants are human-readable strings shown by the terminal UI.
// Keeping them in one place ensures consistent wording across screens.
package app

import (
	"errors"
	"sort"
	"strings"

	"github.com/MKhiriev/go-vault-client/internal/service"
)

const (
	// MsgValidation is shown when the input was rejected and no per-field
	// message is available.
	MsgValidation = "Please check the highlighted fields"

	// MsgSignInAgain is shown after the session expired or was rejected.
	MsgSignInAgain = "Your session has expired, please sign in again"

	// MsgWrongCredentials is shown when a sign-in attempt was rejected.
	MsgWrongCredentials = "Invalid username/email or password"

	// MsgAlreadyExists is shown when a registration clashes with an
	// existing account.
	MsgAlreadyExists = "An account with this username or email already exists"

	// MsgNotFound is shown when the item was deleted elsewhere.
	MsgNotFound = "This item no longer exists"

	// MsgNetwork is shown when the server could not be reached. Changes
	// have been reverted and can be retried.
	MsgNetwork = "Cannot reach the server, please try again"

	// MsgServer is shown when the server failed. Changes have been reverted
	// and can be retried.
	MsgServer = "The server could not complete the request, please try again"

	// MsgBusy is shown when a sign-in is already running.
	MsgBusy = "Signing in, please wait"

	// MsgSignedOut is shown when an action needs a session.
	MsgSignedOut = "Please sign in first"

	// MsgUnexpected is shown for anything else.
	MsgUnexpected = "Something went wrong"
)

// UserMessage renders err for display. Field messages, when present, are
// appended in field-name order.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var fieldErr *service.FieldError
	hasFields := errors.As(err, &fieldErr) && len(fieldErr.Fields) > 0

	switch {
	case errors.Is(err, service.ErrValidation):
		if hasFields {
			return joinFields(fieldErr.Fields)
		}
		return MsgValidation
	case errors.Is(err, service.ErrAuth):
		return MsgSignInAgain
	case errors.Is(err, service.ErrConflict):
		if hasFields {
			return joinFields(fieldErr.Fields)
		}
		return MsgAlreadyExists
	case errors.Is(err, service.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, service.ErrNetwork):
		return MsgNetwork
	case errors.Is(err, service.ErrServer):
		return MsgServer
	case errors.Is(err, service.ErrAuthInProgress):
		return MsgBusy
	case errors.Is(err, service.ErrNotAuthenticated):
		return MsgSignedOut
	default:
		return MsgUnexpected
	}
}

// SignInMessage is UserMessage for the sign-in form, where a rejected
// session means wrong credentials rather than an expired session.
func SignInMessage(err error) string {
	if errors.Is(err, service.ErrAuth) {
		return MsgWrongCredentials
	}
	return UserMessage(err)
}

func joinFields(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, fields[name])
	}
	return strings.Join(msgs, "; ")
}

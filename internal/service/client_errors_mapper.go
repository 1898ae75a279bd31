// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vault-client/internal/adapter"
	"github.com/MKhiriev/go-vault-client/internal/validators"
)

// mapAdapterError translates an adapter error into one of the service error
// kinds. The adapter error stays in the chain for logging.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	var respErr *adapter.ResponseError
	errors.As(err, &respErr)

	switch {
	case errors.Is(err, adapter.ErrTransport),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrNetwork, err)

	case errors.Is(err, adapter.ErrBadRequest):
		return newFieldError(ErrValidation, fieldsOf(respErr), err)

	case errors.Is(err, adapter.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ErrAuth, err)

	case errors.Is(err, adapter.ErrForbidden),
		errors.Is(err, adapter.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)

	case errors.Is(err, adapter.ErrConflict):
		return newFieldError(ErrConflict, fieldsOf(respErr), err)
	}

	return fmt.Errorf("%w: %w", ErrServer, err)
}

// mapValidationError turns a local validation failure into a FieldError.
// Any other validator error is a programming mistake and is reported as is.
func mapValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs *validators.FieldErrors
	if errors.As(err, &fieldErrs) {
		return newFieldError(ErrValidation, fieldErrs.Fields, err)
	}
	return err
}

func fieldsOf(respErr *adapter.ResponseError) map[string]string {
	if respErr == nil {
		return nil
	}
	return respErr.Fields
}

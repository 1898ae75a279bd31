package adapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-vault-client/models"
	"github.com/go-resty/resty/v2"
)

// conflictFields maps message prefixes of 409 responses to the field that
// caused them.
var conflictFields = map[string]string{
	"username already exists": "username",
	"email already exists":    "email",
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	respErr := &ResponseError{Status: resp.StatusCode()}

	var envelope models.APIResponse
	body := resp.Body()
	if err := json.Unmarshal(body, &envelope); err == nil && (envelope.Message != "" || envelope.Error != "") {
		respErr.Message = envelope.Message
		if respErr.Message == "" {
			respErr.Message = envelope.Error
		}
		respErr.Fields = decodeFieldErrors(envelope.Data)
	} else {
		respErr.Message = strings.TrimSpace(string(body))
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		respErr.sentinel = ErrBadRequest
	case http.StatusUnauthorized:
		respErr.sentinel = ErrUnauthorized
	case http.StatusForbidden:
		respErr.sentinel = ErrForbidden
	case http.StatusNotFound:
		respErr.sentinel = ErrNotFound
	case http.StatusConflict:
		respErr.sentinel = ErrConflict
		if respErr.Fields == nil {
			respErr.Fields = conflictField(respErr.Message)
		}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		respErr.sentinel = ErrBadGateway
	default:
		if resp.StatusCode() >= http.StatusInternalServerError {
			respErr.sentinel = ErrInternalServerError
		} else {
			respErr.sentinel = ErrUnexpectedStatus
		}
	}

	return respErr
}

// decodeFieldErrors reads the field → message map the server puts into the
// data of a validation failure. Anything else yields nil.
func decodeFieldErrors(data json.RawMessage) map[string]string {
	if len(data) == 0 {
		return nil
	}

	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil || len(fields) == 0 {
		return nil
	}
	return fields
}

func conflictField(message string) map[string]string {
	lower := strings.ToLower(message)
	for prefix, field := range conflictFields {
		if strings.HasPrefix(lower, prefix) {
			return map[string]string{field: message}
		}
	}
	return nil
}

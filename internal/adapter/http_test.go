// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-vault-client/internal/config"
	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/internal/utils"
	"github.com/MKhiriev/go-vault-client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHashKey = "testhashkey"

func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	adapterCfg := config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 2 * time.Second}
	appCfg := config.ClientApp{HashKey: testHashKey, Version: "1.0.0"}

	a, err := NewHTTPServerAdapter(adapterCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, message string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Success: status < http.StatusBadRequest,
		Message: message,
		Data:    raw,
	})
}

const bankItemJSON = `{"id":7,"title":"Bank","type":"PASSWORD","username":"alice","password":"pw",
"isFavorite":true,"category":"Finance","createdAt":"2026-01-02T03:04:05.123456",
"updatedAt":[2026,1,3,10,0,0,0],"lastAccessedAt":null}`

// ── constructor ─────────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "localhost:8080", want: "http://localhost:8080"},
		{raw: "https://vault.example.com/", want: "https://vault.example.com"},
		{raw: "  ", wantErr: true},
		{raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ── auth ────────────────────────────────────────────────────────────────────

func TestLogin_FormAndBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, routeLogin, r.URL.Path)
		assert.Equal(t, contentTypeForm, r.Header.Get("Content-Type"))
		assert.Contains(t, r.UserAgent(), "vault-client/1.0.0")
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("usernameOrEmail"))
		assert.Equal(t, "secret1", r.PostForm.Get("password"))

		w.Header().Set("Authorization", "Bearer issued.token.value")
		writeEnvelope(t, w, http.StatusOK, "Login successful", models.User{ID: 1, Username: "alice"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	user, err := a.Login(context.Background(), models.Credentials{Login: "alice", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "issued.token.value", a.Token())
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusUnauthorized, "Invalid username or password", nil)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.Credentials{Login: "alice", Password: "wrong!"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, a.Token())
}

func TestLogin_CookieSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case routeLogin:
			http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc", Path: "/"})
			writeEnvelope(t, w, http.StatusOK, "ok", models.User{ID: 1, Username: "alice"})
		case routeMe:
			c, err := r.Cookie("JSESSIONID")
			if err != nil || c.Value != "abc" {
				writeEnvelope(t, w, http.StatusUnauthorized, "Authentication required", nil)
				return
			}
			writeEnvelope(t, w, http.StatusOK, "ok", models.User{ID: 1, Username: "alice"})
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Login(context.Background(), models.Credentials{Login: "alice", Password: "secret1"})
	require.NoError(t, err)

	user, err := a.CheckSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestRegister_SignedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, routeRegister, r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, utils.HashString(string(body), testHashKey), r.Header.Get(headerHash))

		var p models.Profile
		require.NoError(t, json.Unmarshal(body, &p))
		assert.Equal(t, "bob", p.Username)
		assert.Equal(t, "secret1", p.ConfirmPassword)

		writeEnvelope(t, w, http.StatusOK, "User registered successfully", models.User{ID: 2, Username: "bob"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	user, err := a.Register(context.Background(), models.Profile{
		Username: "bob", Email: "bob@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), user.ID)
}

func TestRegister_ConflictFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusConflict, "Email already exists: bob@example.com", nil)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Register(context.Background(), models.Profile{Username: "bob"})

	require.ErrorIs(t, err, ErrConflict)
	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, http.StatusConflict, respErr.Status)
	assert.Contains(t, respErr.Fields, "email")
}

func TestCheckSession_SendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stored", r.Header.Get("Authorization"))
		writeEnvelope(t, w, http.StatusOK, "ok", models.User{ID: 3, Username: "carol", FullName: "Carol C"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken(" stored ")
	user, err := a.CheckSession(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Carol C", user.DisplayName())
}

func TestLogout_DropsTokenEvenOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.SetToken("t")
	err := a.Logout(context.Background())

	assert.ErrorIs(t, err, ErrInternalServerError)
	assert.Empty(t, a.Token())
}

// ── vault ───────────────────────────────────────────────────────────────────

func TestListItems_DecodesServerTimes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, routeItems, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[` + bankItemJSON + `]}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	items, err := a.ListItems(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, int64(7), item.ID)
	assert.Equal(t, "alice", item.Username)
	assert.True(t, item.Favorite)
	require.NotNil(t, item.CreatedAt)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 123456000, time.UTC), *item.CreatedAt)
	require.NotNil(t, item.UpdatedAt)
	assert.Equal(t, time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC), *item.UpdatedAt)
	assert.Nil(t, item.LastAccessedAt)
}

func TestCreateItem_RequestIDFromContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "mutation-1", r.Header.Get(headerRequestID))
		assert.NotEmpty(t, r.Header.Get(headerHash))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":` + bankItemJSON + `}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	ctx := utils.WithRequestID(context.Background(), "mutation-1")
	item, err := a.CreateItem(ctx, models.VaultItemDraft{Title: "Bank", Type: models.ItemTypePassword})

	require.NoError(t, err)
	assert.Equal(t, int64(7), item.ID)
}

func TestCreateItem_ValidationFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusBadRequest, "Validation failed", map[string]string{"title": "Title is required"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.CreateItem(context.Background(), models.VaultItemDraft{Type: models.ItemTypeNote})

	require.ErrorIs(t, err, ErrBadRequest)
	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, "Title is required", respErr.Fields["title"])
}

func TestUpdateItem_PathAndMethod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/vault/items/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":` + bankItemJSON + `}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	item, err := a.UpdateItem(context.Background(), 7, models.VaultItemDraft{Title: "Bank"})

	require.NoError(t, err)
	assert.Equal(t, "Bank", item.Title)
}

func TestDeleteItem_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{status: http.StatusOK},
		{status: http.StatusNoContent},
		{status: http.StatusNotFound, want: ErrNotFound},
		{status: http.StatusForbidden, want: ErrForbidden},
		{status: http.StatusInternalServerError, want: ErrInternalServerError},
		{status: http.StatusServiceUnavailable, want: ErrBadGateway},
		{status: http.StatusTeapot, want: ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/api/vault/items/9", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := newTestAdapter(t, srv.URL).DeleteItem(context.Background(), 9)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestToggleFavorite_Patch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/vault/items/7/favorite", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":` + bankItemJSON + `}`))
	}))
	defer srv.Close()

	item, err := newTestAdapter(t, srv.URL).ToggleFavorite(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, item.Favorite)
}

func TestDecodeItem_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"title":"no id"}}`))
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).ToggleFavorite(context.Background(), 7)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

// A 2xx answer whose envelope says success=false is never taken as data.
func TestUnsuccessfulEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"Item is locked","data":` + bankItemJSON + `}`))
	}))
	defer srv.Close()
	a := newTestAdapter(t, srv.URL)

	_, err := a.ToggleFavorite(context.Background(), 7)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "Item is locked")

	_, err = a.ListItems(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)

	assert.ErrorIs(t, a.DeleteItem(context.Background(), 7), ErrMalformedResponse)
	assert.ErrorIs(t, a.ChangePassword(context.Background(), models.PasswordChange{}), ErrMalformedResponse)
}

func TestDeleteItem_BodyChecks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "success envelope", body: `{"success":true,"message":"deleted"}`},
		{name: "not json", body: `<html>oops</html>`, want: ErrMalformedResponse},
		{name: "unsuccessful envelope", body: `{"success":false,"error":"nope"}`, want: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := newTestAdapter(t, srv.URL).DeleteItem(context.Background(), 9)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// ── account ─────────────────────────────────────────────────────────────────

func TestAvailabilityChecks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case routeCheckName:
			assert.Equal(t, "bob smith", r.URL.Query().Get("username"))
			writeEnvelope(t, w, http.StatusOK, "ok", map[string]bool{"available": true})
		case routeCheckMail:
			assert.Equal(t, "bob+vault@mail.example", r.URL.Query().Get("email"))
			writeEnvelope(t, w, http.StatusOK, "ok", map[string]bool{"available": false})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()
	a := newTestAdapter(t, srv.URL)

	free, err := a.UsernameAvailable(context.Background(), "bob smith")
	require.NoError(t, err)
	assert.True(t, free)

	free, err = a.EmailAvailable(context.Background(), "bob+vault@mail.example")
	require.NoError(t, err)
	assert.False(t, free)
}

func TestProfile_GetAndUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, routeProfile, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		switch r.Method {
		case http.MethodGet:
			writeEnvelope(t, w, http.StatusOK, "ok", models.User{ID: 3, Username: "carol", FullName: "Carol C"})
		case http.MethodPut:
			assert.NotEmpty(t, r.Header.Get(headerHash))
			var update models.ProfileUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
			assert.Equal(t, models.ProfileUpdate{Email: "carol@new.example"}, update)
			writeEnvelope(t, w, http.StatusOK, "Profile updated successfully",
				models.User{ID: 3, Username: "carol", Email: update.Email})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()
	a := newTestAdapter(t, srv.URL)
	a.SetToken("tok")

	user, err := a.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Carol C", user.DisplayName())

	user, err = a.UpdateProfile(context.Background(), models.ProfileUpdate{Email: "carol@new.example"})
	require.NoError(t, err)
	assert.Equal(t, "carol@new.example", user.Email)
}

func TestUpdateProfile_EmailConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusConflict, "Email already exists: x@mail.example", nil)
	}))
	defer srv.Close()

	_, err := newTestAdapter(t, srv.URL).UpdateProfile(context.Background(), models.ProfileUpdate{Email: "x@mail.example"})
	require.ErrorIs(t, err, ErrConflict)
	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Contains(t, respErr.Fields, "email")
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, routePassword, r.URL.Path)
		var change models.PasswordChange
		require.NoError(t, json.NewDecoder(r.Body).Decode(&change))
		if change.CurrentPassword != "right" {
			writeEnvelope(t, w, http.StatusBadRequest, "Current password is incorrect", nil)
			return
		}
		writeEnvelope(t, w, http.StatusOK, "Password changed successfully", nil)
	}))
	defer srv.Close()
	a := newTestAdapter(t, srv.URL)

	err := a.ChangePassword(context.Background(), models.PasswordChange{CurrentPassword: "wrong"})
	require.ErrorIs(t, err, ErrBadRequest)
	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, "Current password is incorrect", respErr.Message)

	assert.NoError(t, a.ChangePassword(context.Background(), models.PasswordChange{CurrentPassword: "right"}))
}

func TestDeleteAccount_SendsConfirmation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, routeAccount, r.URL.Path)
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"password":"secret1","confirmation":"DELETE"}`, string(raw))
		writeEnvelope(t, w, http.StatusOK, "Account deleted successfully", nil)
	}))
	defer srv.Close()

	assert.NoError(t, newTestAdapter(t, srv.URL).DeleteAccount(context.Background(), "secret1"))
}

// ── transport ───────────────────────────────────────────────────────────────

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestAdapter(t, url).ListItems(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, "ok", []any{})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAdapter(t, srv.URL).ListItems(ctx)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

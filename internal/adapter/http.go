package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/go-vault-client/internal/config"
	"github.com/MKhiriev/go-vault-client/internal/logger"
	"github.com/MKhiriev/go-vault-client/internal/utils"
	"github.com/MKhiriev/go-vault-client/models"
	"github.com/go-resty/resty/v2"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	headerHash          = "HashSHA256"

	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

const (
	routeMe        = "/api/auth/me"
	routeLogin     = "/api/auth/login"
	routeRegister  = "/api/auth/register"
	routeLogout    = "/api/auth/logout"
	routeCheckName = "/api/auth/check-username"
	routeCheckMail = "/api/auth/check-email"
	routeProfile   = "/api/user/profile"
	routePassword  = "/api/user/password"
	routeAccount   = "/api/user/account"
	routeItems     = "/api/vault/items"
	routeItem      = "/api/vault/items/{id}"
	routeFavorite  = "/api/vault/items/{id}/favorite"
	pathParamItem  = "id"
	userAgentShort = "vault-client"
)

type httpServerAdapter struct {
	client *utils.HTTPClient
	hasher *utils.Hasher
	ids    *utils.UUIDGenerator

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress,
// configures the underlying HTTP client with the resolved base URL and request
// timeout, and prepares the HMAC signer used for the HashSHA256 header when
// appCfg.HashKey is set.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	userAgent := userAgentShort
	if appCfg.Version != "" {
		userAgent += "/" + appCfg.Version
	}

	client := utils.NewHTTPClient(userAgent)
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{
		client: client,
		hasher: utils.NewHasher(appCfg.HashKey),
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	h.token = strings.TrimSpace(token)
	h.mu.Unlock()
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// CheckSession implements [ServerAdapter]. GET /api/auth/me.
func (h *httpServerAdapter) CheckSession(ctx context.Context) (models.User, error) {
	resp, err := h.send(ctx, http.MethodGet, routeMe, nil, "", nil)
	if err != nil {
		return models.User{}, fmt.Errorf("check session request: %w", err)
	}

	var user models.User
	if err = decodeData(resp, &user); err != nil {
		return models.User{}, fmt.Errorf("check session: %w", err)
	}
	return user, nil
}

// Login implements [ServerAdapter]. The credentials are posted as a form to
// POST /api/auth/login. A bearer token in the Authorization response header
// replaces the stored one; servers that use a session cookie instead are
// served by the client's cookie jar.
func (h *httpServerAdapter) Login(ctx context.Context, credentials models.Credentials) (models.User, error) {
	form := url.Values{}
	form.Set("usernameOrEmail", credentials.Login)
	form.Set("password", credentials.Password)

	resp, err := h.send(ctx, http.MethodPost, routeLogin, []byte(form.Encode()), contentTypeForm, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("login request: %w", err)
	}

	var user models.User
	if err = decodeData(resp, &user); err != nil {
		return models.User{}, fmt.Errorf("login: %w", err)
	}

	h.adoptToken(resp)
	return user, nil
}

// Register implements [ServerAdapter]. POST /api/auth/register with a JSON
// profile.
func (h *httpServerAdapter) Register(ctx context.Context, profile models.Profile) (models.User, error) {
	body, err := json.Marshal(profile)
	if err != nil {
		return models.User{}, fmt.Errorf("encode register request: %w", err)
	}

	resp, err := h.send(ctx, http.MethodPost, routeRegister, body, contentTypeJSON, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("register request: %w", err)
	}

	var user models.User
	if err = decodeData(resp, &user); err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	h.adoptToken(resp)
	return user, nil
}

// Logout implements [ServerAdapter]. POST /api/auth/logout. The stored token
// is dropped whatever the outcome.
func (h *httpServerAdapter) Logout(ctx context.Context) error {
	_, err := h.send(ctx, http.MethodPost, routeLogout, nil, "", nil)
	h.SetToken("")
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	return nil
}

// ListItems implements [ServerAdapter]. GET /api/vault/items.
func (h *httpServerAdapter) ListItems(ctx context.Context) ([]models.VaultItem, error) {
	resp, err := h.send(ctx, http.MethodGet, routeItems, nil, "", nil)
	if err != nil {
		return nil, fmt.Errorf("list items request: %w", err)
	}

	var dtos []itemDTO
	if err = decodeData(resp, &dtos); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items := make([]models.VaultItem, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, dto.toModel())
	}
	return items, nil
}

// CreateItem implements [ServerAdapter]. POST /api/vault/items.
func (h *httpServerAdapter) CreateItem(ctx context.Context, draft models.VaultItemDraft) (models.VaultItem, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("encode create item request: %w", err)
	}

	resp, err := h.send(ctx, http.MethodPost, routeItems, body, contentTypeJSON, nil)
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("create item request: %w", err)
	}

	return decodeItem(resp)
}

// UpdateItem implements [ServerAdapter]. PUT /api/vault/items/{id}.
func (h *httpServerAdapter) UpdateItem(ctx context.Context, id int64, draft models.VaultItemDraft) (models.VaultItem, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("encode update item request: %w", err)
	}

	resp, err := h.send(ctx, http.MethodPut, routeItem, body, contentTypeJSON, itemParams(id))
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("update item %d request: %w", id, err)
	}

	return decodeItem(resp)
}

// DeleteItem implements [ServerAdapter]. DELETE /api/vault/items/{id}.
func (h *httpServerAdapter) DeleteItem(ctx context.Context, id int64) error {
	resp, err := h.send(ctx, http.MethodDelete, routeItem, nil, "", itemParams(id))
	if err != nil {
		return fmt.Errorf("delete item %d request: %w", id, err)
	}
	if err = expectSuccess(resp); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	return nil
}

// ToggleFavorite implements [ServerAdapter]. PATCH /api/vault/items/{id}/favorite.
func (h *httpServerAdapter) ToggleFavorite(ctx context.Context, id int64) (models.VaultItem, error) {
	resp, err := h.send(ctx, http.MethodPatch, routeFavorite, nil, "", itemParams(id))
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("toggle favorite %d request: %w", id, err)
	}

	return decodeItem(resp)
}

// UsernameAvailable implements [ServerAdapter]. GET /api/auth/check-username.
func (h *httpServerAdapter) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	return h.checkAvailable(ctx, routeCheckName, "username", username)
}

// EmailAvailable implements [ServerAdapter]. GET /api/auth/check-email.
func (h *httpServerAdapter) EmailAvailable(ctx context.Context, email string) (bool, error) {
	return h.checkAvailable(ctx, routeCheckMail, "email", email)
}

func (h *httpServerAdapter) checkAvailable(ctx context.Context, route, param, value string) (bool, error) {
	query := url.Values{}
	query.Set(param, value)

	resp, err := h.send(ctx, http.MethodGet, route+"?"+query.Encode(), nil, "", nil)
	if err != nil {
		return false, fmt.Errorf("check %s request: %w", param, err)
	}

	var result availabilityDTO
	if err = decodeData(resp, &result); err != nil {
		return false, fmt.Errorf("check %s: %w", param, err)
	}
	return result.Available, nil
}

// GetProfile implements [ServerAdapter]. GET /api/user/profile.
func (h *httpServerAdapter) GetProfile(ctx context.Context) (models.User, error) {
	resp, err := h.send(ctx, http.MethodGet, routeProfile, nil, "", nil)
	if err != nil {
		return models.User{}, fmt.Errorf("get profile request: %w", err)
	}

	var user models.User
	if err = decodeData(resp, &user); err != nil {
		return models.User{}, fmt.Errorf("get profile: %w", err)
	}
	return user, nil
}

// UpdateProfile implements [ServerAdapter]. PUT /api/user/profile.
func (h *httpServerAdapter) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.User, error) {
	body, err := json.Marshal(update)
	if err != nil {
		return models.User{}, fmt.Errorf("encode profile update: %w", err)
	}

	resp, err := h.send(ctx, http.MethodPut, routeProfile, body, contentTypeJSON, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("update profile request: %w", err)
	}

	var user models.User
	if err = decodeData(resp, &user); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword implements [ServerAdapter]. PUT /api/user/password.
func (h *httpServerAdapter) ChangePassword(ctx context.Context, change models.PasswordChange) error {
	body, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode password change: %w", err)
	}

	resp, err := h.send(ctx, http.MethodPut, routePassword, body, contentTypeJSON, nil)
	if err != nil {
		return fmt.Errorf("change password request: %w", err)
	}
	if err = expectSuccess(resp); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// DeleteAccount implements [ServerAdapter]. DELETE /api/user/account with the
// password and the "DELETE" confirmation word in the body.
func (h *httpServerAdapter) DeleteAccount(ctx context.Context, password string) error {
	body, err := json.Marshal(accountDeletionDTO{Password: password, Confirmation: accountDeletionWord})
	if err != nil {
		return fmt.Errorf("encode account deletion: %w", err)
	}

	resp, err := h.send(ctx, http.MethodDelete, routeAccount, body, contentTypeJSON, nil)
	if err != nil {
		return fmt.Errorf("delete account request: %w", err)
	}
	if err = expectSuccess(resp); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// send executes one request. body, when present, is sent verbatim and signed.
// Transport failures wrap ErrTransport; non-2xx answers are mapped by
// mapHTTPError.
func (h *httpServerAdapter) send(ctx context.Context, method, route string, body []byte, contentType string, pathParams map[string]string) (*resty.Response, error) {
	requestID, ok := utils.GetRequestIDFromContext(ctx)
	if !ok {
		requestID = h.ids.Generate().String()
	}

	req := h.client.R().
		SetContext(ctx).
		SetHeader(headerRequestID, requestID)
	if token := h.Token(); token != "" {
		req.SetHeader(headerAuthorization, "Bearer "+token)
	}
	if pathParams != nil {
		req.SetPathParams(pathParams)
	}
	if body != nil {
		req.SetHeader("Content-Type", contentType).SetBody(body)
		if sign := h.hasher.Sign(body); sign != "" {
			req.SetHeader(headerHash, sign)
		}
	}

	resp, err := req.Execute(method, route)

	log := h.logger.Debug().
		Str("method", method).
		Str("route", route).
		Str("request_id", requestID)
	if err != nil {
		log.Err(err).Msg("request failed")
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	log.Int("status", resp.StatusCode()).Dur("took", resp.Time()).Msg("request done")

	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (h *httpServerAdapter) adoptToken(resp *resty.Response) {
	header := resp.Header().Get(headerAuthorization)
	if header == "" {
		return
	}

	token, err := utils.ParseBearerToken(header)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ignoring malformed authorization header")
		return
	}
	h.SetToken(token)
}

func itemParams(id int64) map[string]string {
	return map[string]string{pathParamItem: strconv.FormatInt(id, 10)}
}

// decodeData unwraps the response envelope into out. An envelope that
// reports success=false is an error whatever the status code.
func decodeData(resp *resty.Response, out any) error {
	var envelope models.APIResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if !envelope.Success {
		return unsuccessful(envelope)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%w: empty data", ErrMalformedResponse)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

// expectSuccess checks the envelope of a call whose data is not used. An
// empty body is accepted.
func expectSuccess(resp *resty.Response) error {
	body := resp.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var envelope models.APIResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if !envelope.Success {
		return unsuccessful(envelope)
	}
	return nil
}

func unsuccessful(envelope models.APIResponse) error {
	msg := envelope.Message
	if msg == "" {
		msg = envelope.Error
	}
	return fmt.Errorf("%w: success=false: %s", ErrMalformedResponse, msg)
}

func decodeItem(resp *resty.Response) (models.VaultItem, error) {
	var dto itemDTO
	if err := decodeData(resp, &dto); err != nil {
		return models.VaultItem{}, err
	}
	if dto.ID <= 0 {
		return models.VaultItem{}, fmt.Errorf("%w: item without id", ErrMalformedResponse)
	}
	return dto.toModel(), nil
}

// Package supabase adaptador del proveedor de autenticación (Supabase Auth / GoTrue).
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/pkg/jwt"
)

var _ ports.IdentityProvider = (*AuthClient)(nil)

// AuthClient llama a la API REST de GoTrue. Con jwtSecret definido los access tokens
// se validan localmente sin llamada de red.
type AuthClient struct {
	baseURL    string
	anonKey    string
	jwtSecret  string
	httpClient *http.Client
}

// NewAuthClient construye el adaptador.
func NewAuthClient(baseURL, anonKey, jwtSecret string, timeout time.Duration) *AuthClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AuthClient{
		baseURL:    baseURL,
		anonKey:    anonKey,
		jwtSecret:  jwtSecret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         userResponse `json:"user"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// GetUser valida el access token y devuelve la identidad.
func (c *AuthClient) GetUser(ctx context.Context, accessToken string) (*ports.Identity, error) {
	if c.jwtSecret != "" {
		claims, err := jwt.Parse(c.jwtSecret, accessToken)
		if err != nil {
			return nil, fmt.Errorf("%w: token inválido o expirado", domain.ErrUnauthorized)
		}
		return &ports.Identity{UserID: claims.Subject, Email: claims.Email}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	var u userResponse
	if err := c.do(req, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	return &ports.Identity{UserID: u.ID, Email: u.Email}, nil
}

// SignInWithPassword intercambia email y password por una sesión (grant_type=password).
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*ports.Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("supabase: serializar request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("supabase: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	var t tokenResponse
	if err := c.do(req, &t); err != nil {
		return nil, err
	}
	return &ports.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
		User:         ports.Identity{UserID: t.User.ID, Email: t.User.Email},
	}, nil
}

// do ejecuta la request con la apikey del proyecto. 400/401/403 se traducen a domain.ErrUnauthorized.
func (c *AuthClient) do(req *http.Request, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("supabase: SUPABASE_URL no configurado")
	}
	req.Header.Set("apikey", c.anonKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return fmt.Errorf("supabase: timeout o cancelación: %w", req.Context().Err())
		}
		return fmt.Errorf("supabase: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("supabase: leer respuesta: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		if msg := e.text(); msg != "" {
			return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
		}
		return domain.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &ports.ProviderError{Provider: "supabase", StatusCode: resp.StatusCode, Body: raw}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("supabase: deserializar respuesta: %w", err)
	}
	return nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"logframe-studio/internal/domain"
)

// API is the thin HTTP client for the CRUD service. It holds no state
// beyond the base URL; the Store owns the session token and passes it in.
type API struct {
	BaseURL string
	HTTP    *http.Client
}

func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &API{BaseURL: baseURL, HTTP: httpClient}
}

// APIError is a non-zero envelope code from the server.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string { return fmt.Sprintf("api error %d: %s", e.Code, e.Msg) }

// Session mirrors the auth endpoints' response.
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type Registration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role,omitempty"`
	Experience   string `json:"experience,omitempty"`
}

// ProjectPatch is a partial-document update; nil fields are left alone by
// the server.
type ProjectPatch struct {
	Name           *string               `json:"name,omitempty"`
	Description    *string               `json:"description,omitempty"`
	Organization   *string               `json:"organization,omitempty"`
	Status         *domain.ProjectStatus `json:"status,omitempty"`
	CurrentStep    *int                  `json:"currentStep,omitempty"`
	CompletedSteps *[]int                `json:"completedSteps,omitempty"`
	Data           *domain.ProjectData   `json:"data,omitempty"`
}

type CreateProjectInput struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Organization string              `json:"organization,omitempty"`
	TemplateID   string              `json:"templateId,omitempty"`
	Data         *domain.ProjectData `json:"data,omitempty"`
}

func (a *API) Register(ctx context.Context, in Registration) (*Session, error) {
	return call[*Session](a, ctx, http.MethodPost, "/api/auth/register", "", in)
}

func (a *API) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	return call[*Session](a, ctx, http.MethodPost, "/api/auth/login", "", body)
}

func (a *API) ListProjects(ctx context.Context, token string) ([]domain.Project, error) {
	return call[[]domain.Project](a, ctx, http.MethodGet, "/api/projects", token, nil)
}

func (a *API) CreateProject(ctx context.Context, token string, in CreateProjectInput) (*domain.Project, error) {
	return call[*domain.Project](a, ctx, http.MethodPost, "/api/projects", token, in)
}

func (a *API) UpdateProject(ctx context.Context, token, id string, patch ProjectPatch) (*domain.Project, error) {
	return call[*domain.Project](a, ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), token, patch)
}

func (a *API) DeleteProject(ctx context.Context, token, id string) error {
	_, err := call[json.RawMessage](a, ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), token, nil)
	return err
}

func (a *API) ImportProjectData(ctx context.Context, token, targetID, sourceID string) (*domain.Project, error) {
	body := map[string]string{"sourceId": sourceID}
	return call[*domain.Project](a, ctx, http.MethodPost, "/api/projects/"+url.PathEscape(targetID)+"/import", token, body)
}

func (a *API) EarnBadge(ctx context.Context, token, badgeID string) (*domain.User, error) {
	body := map[string]string{"badgeId": badgeID}
	return call[*domain.User](a, ctx, http.MethodPut, "/api/auth/badges", token, body)
}

func (a *API) DiscoverProjects(ctx context.Context, token string, q domain.LocationQuery) ([]domain.Project, error) {
	v := url.Values{}
	v.Set("state", q.State)
	if q.District != "" {
		v.Set("district", q.District)
	}
	if q.Block != "" {
		v.Set("block", q.Block)
	}
	if q.Cluster != "" {
		v.Set("cluster", q.Cluster)
	}
	return call[[]domain.Project](a, ctx, http.MethodGet, "/api/projects/location?"+v.Encode(), token, nil)
}

// ExportProject downloads the rendered document; returns the bytes and
// the content type.
func (a *API) ExportProject(ctx context.Context, token, id, format string) ([]byte, string, error) {
	req, err := a.newRequest(ctx, http.MethodGet,
		"/api/projects/"+url.PathEscape(id)+"/export/"+url.PathEscape(format), token, nil)
	if err != nil {
		return nil, "", err
	}
	res, err := a.HTTP.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("export failed: %s", res.Status)
	}
	b, err := io.ReadAll(res.Body)
	return b, res.Header.Get("Content-Type"), err
}

func (a *API) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// call issues a request and unwraps the {code,msg,data} envelope.
func call[T any](a *API, ctx context.Context, method, path, token string, body any) (T, error) {
	var zero T
	req, err := a.newRequest(ctx, method, path, token, body)
	if err != nil {
		return zero, err
	}
	res, err := a.HTTP.Do(req)
	if err != nil {
		return zero, err
	}
	defer res.Body.Close()

	var env struct {
		Code int             `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}
	if env.Code != 0 {
		return zero, &APIError{Code: env.Code, Msg: env.Msg}
	}
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, fmt.Errorf("decode data: %w", err)
	}
	return out, nil
}

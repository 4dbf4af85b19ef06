package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPSource speaks to the gallery endpoints of a running API.
type HTTPSource struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (s *HTTPSource) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}
	if err := s.get(ctx, "/api/v1/gallery/version", &out); err != nil {
		return "", err
	}
	return out.Version, nil
}

func (s *HTTPSource) Images(ctx context.Context) (*ImageSet, error) {
	var out ImageSet
	if err := s.get(ctx, "/api/v1/gallery/images", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *HTTPSource) get(ctx context.Context, path string, data interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body := envelope[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: %s %d", ErrUnexpectedResponse, path, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "success" {
		msg := body.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s: %s", path, msg)
	}
	return json.Unmarshal(body.Data, data)
}

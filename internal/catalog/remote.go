package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/olivier-w/climg/internal/gallery"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPages        = 1000
	maxBody         = 16 << 20
)

// APIError is a failed assets request: a non-2xx status or an envelope
// with success=false.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("assets API: status %d", e.Status)
	}
	return fmt.Sprintf("assets API: status %d: %s", e.Status, e.Message)
}

type envelope struct {
	Success bool       `json:"success"`
	Data    *assetPage `json:"data,omitempty"`
	Error   string     `json:"error,omitempty"`
}

type assetPage struct {
	Items []asset `json:"items"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

type asset struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnailUrl"`
	Size         int64      `json:"size"`
	FolderID     *string    `json:"folderId"`
	UserID       string     `json:"userId"`
	CreatedAt    string     `json:"createdAt"`
	Tags         []assetTag `json:"tags,omitempty"`
}

type assetTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RemoteSource pages through an assets endpoint.
type RemoteSource struct {
	endpoint string
	token    string
	folder   string
	limit    int
	client   *http.Client
	log      *zap.Logger
}

// NewRemoteSource returns a source for base. "/assets" is appended unless
// base already names it.
func NewRemoteSource(base string, opts ...Option) *RemoteSource {
	o := buildOptions(opts)
	endpoint := strings.TrimRight(base, "/")
	if !strings.HasSuffix(endpoint, "/assets") {
		endpoint += "/assets"
	}
	limit := o.limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return &RemoteSource{
		endpoint: endpoint,
		token:    o.token,
		folder:   o.folder,
		limit:    limit,
		client:   o.client,
		log:      o.log,
	}
}

// Endpoint returns the assets URL being paged.
func (s *RemoteSource) Endpoint() string {
	return s.endpoint
}

func (s *RemoteSource) Items(ctx context.Context) ([]gallery.Item, error) {
	var items []gallery.Item
	for page := 1; page <= maxPages; page++ {
		p, err := s.page(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, a := range p.Items {
			items = append(items, a.item())
		}
		s.log.Debug("fetched assets page",
			zap.Int("page", page),
			zap.Int("items", len(p.Items)),
			zap.Int("total", p.Total))
		if len(p.Items) == 0 || len(items) >= p.Total {
			break
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", s.endpoint, ErrEmptyCatalog)
	}
	return items, nil
}

func (s *RemoteSource) page(ctx context.Context, page int) (*assetPage, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(s.limit))
	if s.folder != "" {
		q.Set("folderId", s.folder)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetching %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("catalog: reading response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("catalog: decoding assets page: %w", decodeErr)
	}
	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Error}
	}
	if env.Data == nil {
		return nil, &APIError{Status: resp.StatusCode, Message: "response has no data"}
	}
	return env.Data, nil
}

// item prefers the thumbnail for the texture.
func (a asset) item() gallery.Item {
	img := a.ThumbnailURL
	if img == "" {
		img = a.URL
	}
	it := gallery.Item{
		ID:     a.ID,
		Title:  a.Title,
		Image:  img,
		Size:   a.Size,
		Author: a.UserID,
	}
	if it.ID == "" {
		it.ID = ItemID(img)
	}
	if it.Title == "" {
		it.Title = titleFromRef(img)
	}
	if len(a.CreatedAt) >= 4 {
		it.Year = a.CreatedAt[:4]
	}
	for _, t := range a.Tags {
		if t.Name != "" {
			it.Tags = append(it.Tags, t.Name)
		}
	}
	return it
}

package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pvaillant/fieldreport/internal/logging"
	"github.com/pvaillant/fieldreport/internal/models"
)

// RESTClient implements Gateway against a Supabase-style backend: PostgREST
// tables under /rest/v1, edge functions under /functions/v1, and an
// S3-compatible bucket for photo binaries.
type RESTClient struct {
	baseURL string
	apiKey  string
	session *Session
	objects ObjectStore
	httpc   *http.Client
	log     logging.Logger
}

// NewRESTClient builds a gateway client. httpc may be nil, in which case a
// default client with a 30s timeout is used.
func NewRESTClient(baseURL, apiKey string, session *Session, objects ObjectStore, httpc *http.Client, log logging.Logger) *RESTClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		session: session,
		objects: objects,
		httpc:   httpc,
		log:     log,
	}
}

func (c *RESTClient) token() string {
	if c.session != nil && c.session.AccessToken != "" {
		return c.session.AccessToken
	}
	return c.apiKey
}

// do runs one JSON request. prefer is the PostgREST Prefer header ("" for
// none); out, when non-nil, receives the decoded response body.
func (c *RESTClient) do(ctx context.Context, method, path string, query url.Values, prefer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.token())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		return mapStatus(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// mapStatus converts an HTTP error response into one of the gateway's error
// classes.
func mapStatus(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	lower := strings.ToLower(msg)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	case strings.Contains(lower, "quota") || strings.Contains(lower, "billing"):
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, msg)
	case status >= 500:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, status, msg)
	default:
		return fmt.Errorf("request failed: status %d: %s", status, msg)
	}
}

func (c *RESTClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.do(ctx, http.MethodGet, "/auth/v1/health", nil, "", nil, nil)
}

func (c *RESTClient) CurrentUserID(ctx context.Context) (string, error) {
	if c.session == nil || !c.session.Valid(time.Now()) {
		return "", ErrUnauthorized
	}
	return c.session.UserID()
}

func (c *RESTClient) UpsertIntervention(ctx context.Context, i *models.Intervention) error {
	userId, err := c.CurrentUserID(ctx)
	if err != nil {
		return err
	}

	query := url.Values{"on_conflict": {"id"}}
	err = c.do(ctx, http.MethodPost, "/rest/v1/interventions", query,
		"resolution=merge-duplicates,return=minimal", interventionRow(i, userId), nil)
	if err != nil {
		return fmt.Errorf("failed to upsert intervention %s: %w", i.Id, err)
	}
	return nil
}

func (c *RESTClient) ListInterventionsSince(ctx context.Context, since time.Time) ([]*InterventionRecord, error) {
	query := url.Values{
		"select":     {"*"},
		"updated_at": {"gte." + since.UTC().Format(time.RFC3339Nano)},
		"order":      {"updated_at.desc"},
	}
	var records []*InterventionRecord
	if err := c.do(ctx, http.MethodGet, "/rest/v1/interventions", query, "", nil, &records); err != nil {
		return nil, fmt.Errorf("failed to list interventions: %w", err)
	}
	return records, nil
}

func (c *RESTClient) UpsertPhoto(ctx context.Context, p *models.Photo) error {
	query := url.Values{"on_conflict": {"id"}}
	err := c.do(ctx, http.MethodPost, "/rest/v1/photos", query,
		"resolution=merge-duplicates,return=minimal", photoRow(p), nil)
	if err != nil {
		return fmt.Errorf("failed to upsert photo %s: %w", p.Id, err)
	}
	return nil
}

func (c *RESTClient) ListPhotos(ctx context.Context, limit int) ([]*models.Photo, error) {
	query := url.Values{
		"select": {"*"},
		"order":  {"taken_at.desc"},
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var result []*models.Photo
	if err := c.do(ctx, http.MethodGet, "/rest/v1/photos", query, "", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return result, nil
}

func (c *RESTClient) UploadPhotoObject(ctx context.Context, interventionId, photoId, ext string, data []byte, contentType string) (string, error) {
	userId, err := c.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s.%s", userId, interventionId, photoId, ext)

	// Remove any previous object under the same key so re-uploads behave
	// like an upsert.
	if err := c.objects.Delete(ctx, key); err != nil {
		c.log.Debug(ctx, "pre-upload delete failed", "key", key, "error", err)
	}

	publicURL, err := c.objects.Put(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo object %s: %w", key, err)
	}
	return publicURL, nil
}

func (c *RESTClient) DeletePhoto(ctx context.Context, p *models.Photo) error {
	if p.URLCloud != "" {
		if key, ok := c.objects.KeyFromURL(p.URLCloud); ok {
			// Row deletion proceeds even when the object is already gone.
			if err := c.objects.Delete(ctx, key); err != nil {
				c.log.Warn(ctx, "failed to delete photo object", "key", key, "error", err)
			}
		}
	}

	query := url.Values{"id": {"eq." + p.Id}}
	if err := c.do(ctx, http.MethodDelete, "/rest/v1/photos", query, "", nil, nil); err != nil {
		return fmt.Errorf("failed to delete photo %s: %w", p.Id, err)
	}
	return nil
}

func (c *RESTClient) DeletePhotosByIntervention(ctx context.Context, interventionId string) error {
	query := url.Values{"intervention_id": {"eq." + interventionId}}
	if err := c.do(ctx, http.MethodDelete, "/rest/v1/photos", query, "", nil, nil); err != nil {
		return fmt.Errorf("failed to delete photos of intervention %s: %w", interventionId, err)
	}
	return nil
}

func (c *RESTClient) DeleteIntervention(ctx context.Context, id string) error {
	query := url.Values{"id": {"eq." + id}}
	if err := c.do(ctx, http.MethodDelete, "/rest/v1/interventions", query, "", nil, nil); err != nil {
		return fmt.Errorf("failed to delete intervention %s: %w", id, err)
	}
	return nil
}

func (c *RESTClient) Transcribe(ctx context.Context, audio []byte, fileName, mimeType string) (string, error) {
	body := map[string]string{
		"audioData": base64.StdEncoding.EncodeToString(audio),
		"fileName":  fileName,
		"mimeType":  mimeType,
	}
	var resp struct {
		Transcription string `json:"transcription"`
	}
	if err := c.do(ctx, http.MethodPost, "/functions/v1/transcribe-audio", nil, "", body, &resp); err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return resp.Transcription, nil
}

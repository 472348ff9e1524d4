package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"go.uber.org/zap"
)

// Reference images live in the public "images" bucket; their public URLs look
// like https://{host}/storage/v1/object/public/images/{path}.
var refImagePattern = regexp.MustCompile(`/storage/v1/object/public/images/(.+)$`)

// RefImagePath extracts the bucket-relative path from a public image URL.
func RefImagePath(publicURL string) (string, bool) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", false
	}
	m := refImagePattern.FindStringSubmatch(u.Path)
	if len(m) != 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

type Config struct {
	BaseURL        string
	ServiceRoleKey string // privileged key, bypasses per-user access rules
}

// Client deletes objects from the hosted storage service. Uses the service
// role since the owning user's session may no longer be active when a
// generation callback arrives.
type Client interface {
	DeleteObject(ctx context.Context, bucket string, path string) error
}

type client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) Client {
	return &client{
		cfg: cfg,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log.Named("storage"),
	}
}

func (c *client) DeleteObject(ctx context.Context, bucket string, path string) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.cfg.BaseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceRoleKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete object %s/%s: status %d", bucket, path, resp.StatusCode)
	}

	return nil
}

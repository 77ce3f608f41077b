// Package indexer is the HTTP client for the external video-indexing
// service: upload a recording, wait for it to be analyzed, fetch the
// thumbnail and the summarized prompt content.
package indexer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/campushub/coursechat/model"
)

const (
	stateProcessed = "Processed"
	stateFailed    = "Failed"

	defaultPollInterval = 10 * time.Second
)

type Config struct {
	Endpoint    string
	Location    string
	AccountID   string
	AccessToken string

	// PollInterval defaults to 10s. Timeout zero means wait indefinitely.
	PollInterval time.Duration
	Timeout      time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: logger,
	}
}

func (c *Client) videoURL(videoID, tail string) string {
	u := fmt.Sprintf("%s/%s/Accounts/%s/Videos", c.cfg.Endpoint, c.cfg.Location, c.cfg.AccountID)
	if videoID != "" {
		u += "/" + videoID
	}
	if tail != "" {
		u += "/" + tail
	}

	return u
}

// Upload submits a recording for indexing and returns the id the service
// assigned to the job.
func (c *Client) Upload(ctx context.Context, upload model.Upload) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", upload.Name)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := part.Write(upload.Media); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	params := url.Values{}
	params.Set("accessToken", c.cfg.AccessToken)
	params.Set("name", truncate(upload.Name, 80))
	params.Set("description", upload.Description)
	params.Set("privacy", "private")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.videoURL("", "")+"?"+params.Encode(), &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var result struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &result); err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	c.logger.Info("uploaded video for indexing", slog.String("name", upload.Name), slog.String("indexerID", result.ID))

	return result.ID, nil
}

// WaitForIndex polls the index endpoint at a fixed interval until the
// service reports the video processed. A reported failure is a hard
// error; running out of time yields model.ErrIndexingTimeout, since the
// outcome is then unknown rather than known bad.
func (c *Client) WaitForIndex(ctx context.Context, videoID string) (model.Insights, error) {
	start := time.Now()
	for {
		index, err := c.fetchIndex(ctx, videoID)
		if err != nil {
			return model.Insights{}, err
		}

		switch index.State {
		case stateProcessed:
			return index.insights(), nil
		case stateFailed:
			return model.Insights{}, fmt.Errorf("indexing failed for video %s", videoID)
		}

		c.logger.Info("video still indexing", slog.String("indexerID", videoID), slog.String("state", index.State))

		if c.cfg.Timeout > 0 && time.Since(start)+c.cfg.PollInterval > c.cfg.Timeout {
			return model.Insights{}, fmt.Errorf("video %s: %w", videoID, model.ErrIndexingTimeout)
		}

		select {
		case <-ctx.Done():
			return model.Insights{}, ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}
	}
}

// Thumbnail fetches a thumbnail and returns it base64 encoded.
func (c *Client) Thumbnail(ctx context.Context, videoID, thumbnailID string) (string, error) {
	params := url.Values{}
	params.Set("accessToken", c.cfg.AccessToken)
	params.Set("format", "Jpeg")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.videoURL(videoID, "Thumbnails/"+thumbnailID)+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build thumbnail request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch thumbnail: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch thumbnail: status %d", resp.StatusCode)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to fetch thumbnail: %w", err)
	}

	return base64.StdEncoding.EncodeToString(image), nil
}

// PromptContent fetches the summarized content sections for an indexed
// video, with their time windows normalized to seconds.
func (c *Client) PromptContent(ctx context.Context, videoID string) ([]model.PromptSection, error) {
	params := url.Values{}
	params.Set("accessToken", c.cfg.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.videoURL(videoID, "PromptContent")+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt content request: %w", err)
	}

	var result struct {
		Sections []struct {
			Start   string `json:"start"`
			End     string `json:"end"`
			Content string `json:"content"`
		} `json:"sections"`
	}
	if err := c.do(req, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch prompt content: %w", err)
	}

	sections := make([]model.PromptSection, 0, len(result.Sections))
	for _, section := range result.Sections {
		sections = append(sections, model.PromptSection{
			Start:   model.ParseTimestamp(section.Start),
			End:     model.ParseTimestamp(section.End),
			Content: section.Content,
		})
	}

	return sections, nil
}

func (c *Client) fetchIndex(ctx context.Context, videoID string) (*videoIndex, error) {
	params := url.Values{}
	params.Set("accessToken", c.cfg.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.videoURL(videoID, "Index")+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build index request: %w", err)
	}

	var index videoIndex
	if err := c.do(req, &index); err != nil {
		return nil, fmt.Errorf("failed to fetch video index: %w", err)
	}

	return &index, nil
}

func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max]
}

package pose

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client talks to the external pose-estimator service over HTTP. Transient
// failures are retried with exponential backoff here, at the boundary; the
// analysis core itself never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxElapsed time.Duration
}

// NewClient creates a client for the estimator service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxElapsed: 30 * time.Second,
	}
}

type estimateResponse struct {
	Detected  bool                      `json:"detected"`
	Landmarks map[LandmarkName]Landmark `json:"landmarks"`
	Error     string                    `json:"error,omitempty"`
}

// EstimateFrame sends one encoded frame image and returns its landmarks.
// A frame the model cannot pose returns an empty Frame, not an error.
func (c *Client) EstimateFrame(image []byte) (Frame, error) {
	var out Frame

	op := func() error {
		frame, err := c.estimateOnce(image)
		if err != nil {
			return err
		}
		out = frame
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("pose estimator: %w", err)
	}
	return out, nil
}

func (c *Client) estimateOnce(image []byte) (Frame, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("frame", "frame.jpg")
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(image); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/estimate", &body)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("estimator returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		// Client-side errors will not improve on retry.
		return nil, backoff.Permanent(fmt.Errorf("estimator returned %d: %s", resp.StatusCode, raw))
	}

	var er estimateResponse
	if err := json.Unmarshal(raw, &er); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode estimator response: %w", err))
	}
	if er.Error != "" {
		return nil, backoff.Permanent(fmt.Errorf("estimator: %s", er.Error))
	}
	if !er.Detected {
		return Frame{}, nil
	}
	return Frame(er.Landmarks), nil
}

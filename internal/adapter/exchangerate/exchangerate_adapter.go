package exchangerate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/sirupsen/logrus"
)

const maxBodySize = 1 << 20

var ErrMissingRates = errors.New("missing rates in payload")

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				ResponseHeaderTimeout: timeout,
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (c *Client) FetchRates(ctx context.Context, base string) (*LatestRates, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(base))

	c.logger.WithField("url", endpoint).Debug("Fetching exchange rates")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Errorf("Failed to create request: %v", err)
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "currency-converter/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("base", base).Warn("Failed to reach rate source")
		return nil, fmt.Errorf("fetch error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.logger.Errorf("Failed to read response body: %v", err)
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.WithFields(logrus.Fields{
			"base":   base,
			"status": resp.StatusCode,
		}).Warn("Rate source returned non-success status")
		return nil, fmt.Errorf("rate source returned status %d", resp.StatusCode)
	}

	if len(body) == 0 {
		c.logger.Error("Empty response body from rate source")
		return nil, errors.New("empty response body")
	}

	reader, err := decodeCharset(resp.Header.Get("Content-Type"), body)
	if err != nil {
		c.logger.WithError(err).Error("Failed to decode response charset")
		return nil, err
	}

	var latest LatestRates
	if err := json.NewDecoder(reader).Decode(&latest); err != nil {
		c.logger.Errorf("Failed to parse rates payload: %v", err)
		c.logger.Debugf("First 200 chars: %s", string(body)[:min(200, len(body))])
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	if latest.Rates == nil {
		c.logger.WithField("base", base).Error("Rates payload has no rates field")
		return nil, ErrMissingRates
	}

	c.logger.WithFields(logrus.Fields{
		"base":  base,
		"rates": len(latest.Rates),
	}).Info("Fetched exchange rates")

	return &latest, nil
}

func decodeCharset(contentType string, body []byte) (io.Reader, error) {
	if contentType == "" {
		return bytes.NewReader(body), nil
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return bytes.NewReader(body), nil
	}

	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return bytes.NewReader(body), nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
	return enc.NewDecoder().Reader(bytes.NewReader(body)), nil
}

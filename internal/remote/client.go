package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Client talks to the backend job-board API. Every call carries the caller's
// context and, when given, the user's bearer token.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// File is an upload sent alongside multipart form fields.
type File struct {
	Field    string
	Filename string
	Content  io.Reader
}

// NewClient builds a client for the API rooted at baseURL. A nil httpClient
// gets a default one with the given timeout. rps > 0 paces outbound requests.
func NewClient(baseURL string, timeout time.Duration, rps float64, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid api root %q", baseURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("api root %q must be an absolute url", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
	if rps > 0 {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return c, nil
}

func (c *Client) Get(ctx context.Context, path, token string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, token, query, nil, "", out)
}

func (c *Client) PostJSON(ctx context.Context, path, token string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "unable to encode request for %s", path)
	}
	return c.do(ctx, http.MethodPost, path, token, nil, bytes.NewReader(body), "application/json", out)
}

func (c *Client) PutJSON(ctx context.Context, path, token string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "unable to encode request for %s", path)
	}
	return c.do(ctx, http.MethodPut, path, token, nil, bytes.NewReader(body), "application/json", out)
}

// PostMultipart sends fields and files as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path, token string, fields map[string]string, files []File, out interface{}) error {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return errors.Wrapf(err, "unable to write field %s", k)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return errors.Wrapf(err, "unable to create form file %s", f.Field)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return errors.Wrapf(err, "unable to copy form file %s", f.Field)
		}
	}
	if err := mw.Close(); err != nil {
		return errors.Wrap(err, "unable to close multipart writer")
	}
	return c.do(ctx, http.MethodPost, path, token, nil, buf, mw.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrapf(err, "%s %s", method, path)
		}
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return errors.Wrapf(err, "unable to build request %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		return newAPIError(method, path, res)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil && err != io.EOF {
		return errors.Wrapf(err, "unable to decode response of %s %s", method, path)
	}
	return nil
}

package meditrail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is the production Meditrail API.
	DefaultBaseURL = "https://meditrail.unitedwecare.com/api/v1"

	// MaxFileSize is the upload limit enforced by the API, 50 MiB.
	MaxFileSize int64 = 50 << 20

	// DefaultTimeout bounds a whole call, upload and response included.
	DefaultTimeout = 60 * time.Second
	// DefaultConnectTimeout bounds establishing the TCP connection.
	DefaultConnectTimeout = 30 * time.Second

	processPath = "/ocr/process"

	headerAPIKey    = "X-API-Key"
	headerRequestID = "X-Request-ID"
)

// Config holds the connection settings of a Client.
type Config struct {
	APIKey         string        `json:"api_key" yaml:"api_key"`
	BaseURL        string        `json:"base_url" yaml:"base_url"`
	Timeout        time.Duration `json:"timeout" yaml:"timeout"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`
}

// ProcessRequest describes one document upload. Text and SystemPrompt are
// optional; blank values are not sent.
type ProcessRequest struct {
	FilePath     string
	Text         string
	SystemPrompt string
}

// Client talks to the Meditrail OCR API. It holds no mutable state after
// construction and may be shared between goroutines.
type Client struct {
	baseURL    string
	headers    http.Header
	timeout    time.Duration
	httpClient *http.Client
	logger     *log.Logger

	openFile func(name string) (io.ReadCloser, error)
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used by the client.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the production API.
func New(apiKey string, opts ...Option) (*Client, error) {
	return NewClient(Config{APIKey: apiKey}, opts...)
}

// NewClient creates a client from cfg. APIKey is required.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := DefaultTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	connectTimeout := DefaultConnectTimeout
	if cfg.ConnectTimeout > 0 {
		connectTimeout = cfg.ConnectTimeout
	}

	headers := make(http.Header)
	headers.Set(headerAPIKey, cfg.APIKey)

	c := &Client{
		baseURL: baseURL,
		headers: headers,
		timeout: timeout,
		logger:  log.Default(),
		openFile: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout:   timeout,
			Transport: newTransport(connectTimeout),
		}
	}

	return c, nil
}

// newTransport clones http.DefaultTransport when it is still a *http.Transport;
// wrappers installed by tracing or recording tools are not cloned.
func newTransport(connectTimeout time.Duration) *http.Transport {
	var transport *http.Transport
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		transport = t.Clone()
	} else {
		transport = &http.Transport{Proxy: http.ProxyFromEnvironment}
	}
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return transport
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ProcessDocument uploads filePath for OCR processing. text and systemPrompt
// may be empty.
func (c *Client) ProcessDocument(ctx context.Context, filePath, text, systemPrompt string) (*Result, error) {
	return c.Process(ctx, ProcessRequest{
		FilePath:     filePath,
		Text:         text,
		SystemPrompt: systemPrompt,
	})
}

// Process uploads a document and returns the parsed API response.
// Every failure is an *APIError; exactly one HTTP attempt is made.
func (c *Client) Process(ctx context.Context, pr ProcessRequest) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	size, err := checkFile(pr.FilePath)
	if err != nil {
		return nil, err
	}

	file, err := c.openFile(pr.FilePath)
	if err != nil {
		return nil, wrapAPIError(KindFileNotFound, "File not found: "+pr.FilePath, err)
	}
	defer file.Close()

	body, contentType, err := buildMultipart(file, filepath.Base(pr.FilePath), pr.Text, pr.SystemPrompt, MaxFileSize)
	if errors.Is(err, errFileGrew) {
		return nil, wrapAPIError(KindFileTooLarge, "File too large: more than 50MB read (max: 50MB)", err)
	}
	if err != nil {
		return nil, wrapAPIError(KindFileNotFound, "Could not read file: "+pr.FilePath, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + processPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, wrapAPIError(KindConnectionFailed, "Connection error", fmt.Errorf("create request: %w", err))
	}

	requestID := uuid.NewString()
	for name, values := range c.headers {
		req.Header[name] = append([]string(nil), values...)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)

	c.logger.Printf("INFO: Sending %s (%d bytes) to %s, request_id=%s", filepath.Base(pr.FilePath), size, url, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := classifyTransportError(err)
		c.logger.Printf("ERROR: OCR request failed, request_id=%s: %v", requestID, err)
		return nil, apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := classifyTransportError(err)
		c.logger.Printf("ERROR: Failed to read OCR response, request_id=%s: %v", requestID, err)
		return nil, apiErr
	}

	result, err := decodeResponse(resp.StatusCode, respBody)
	if err != nil {
		c.logger.Printf("WARNING: OCR API returned %d, request_id=%s: %v", resp.StatusCode, requestID, err)
		return nil, err
	}

	c.logger.Printf("INFO: Document processed, id=%s request_id=%s", result.ID(), requestID)
	return result, nil
}

// checkFile validates the upload locally so that no request is sent for a
// missing or oversized file.
func checkFile(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, wrapAPIError(KindFileNotFound, "File not found: "+path, err)
	}
	if !info.Mode().IsRegular() {
		return 0, wrapAPIError(KindFileNotFound, "File not found: "+path, fmt.Errorf("%s is not a regular file", path))
	}
	if info.Size() > MaxFileSize {
		msg := fmt.Sprintf("File too large: %.2fMB (max: 50MB)", float64(info.Size())/(1<<20))
		return 0, newAPIError(KindFileTooLarge, 0, msg, nil)
	}
	return info.Size(), nil
}

// errFileGrew reports a file that exceeded the limit while being read,
// after passing checkFile.
var errFileGrew = errors.New("file grew past the size limit")

func buildMultipart(file io.Reader, fileName, text, systemPrompt string, limit int64) (*bytes.Buffer, string, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	n, err := io.Copy(part, io.LimitReader(file, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("copy file: %w", err)
	}
	if n > limit {
		return nil, "", errFileGrew
	}

	if strings.TrimSpace(text) != "" {
		if err := writer.WriteField("text", text); err != nil {
			return nil, "", fmt.Errorf("write text field: %w", err)
		}
	}
	if strings.TrimSpace(systemPrompt) != "" {
		if err := writer.WriteField("system_prompt", systemPrompt); err != nil {
			return nil, "", fmt.Errorf("write system_prompt field: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return &buffer, writer.FormDataContentType(), nil
}

func classifyTransportError(err error) *APIError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return wrapAPIError(KindTimeout, "Request timed out", err)
	}

	if errors.Is(err, context.Canceled) {
		return wrapAPIError(KindConnectionFailed, "Request canceled", err)
	}

	return wrapAPIError(KindConnectionFailed, "Connection error", err)
}

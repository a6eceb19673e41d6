// Package upstream forwards gateway requests to the backend service with the
// caller's credential attached, and normalizes the heterogeneous responses the
// backend produces into a single result shape.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	apperrors "github.com/ospitek/ui-gateway/internal/errors"
	"github.com/ospitek/ui-gateway/internal/observability/statsd"
)

const (
	// unreachableMessage is the only detail callers see on transport failures.
	unreachableMessage = "Errore di comunicazione con il server"
	// internalFailureMessage is surfaced when a 2xx body carries a failure marker.
	internalFailureMessage = "Errore interno del server"

	successMarker = "success"
)

// Config captures what the forwarder needs. Callers should pass a validated config.
type Config struct {
	// BaseURL is the upstream service address. Required.
	BaseURL string
	// Client is the HTTP client used for forwarding. Defaults to a client
	// without a timeout: the upstream is trusted to answer eventually, and
	// transport-level failures are mapped rather than leaked.
	Client  *http.Client
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// Client forwards requests to the upstream service.
// It holds no per-request state; concurrent calls are independent.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewClient builds an upstream forwarder.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("upstream base URL is required")
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = statsd.Noop()
	}

	return &Client{
		baseURL: baseURL,
		hc:      hc,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// FilePart is a single uploaded file to re-encode into the outbound multipart body.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     []byte
}

// Request describes one forwarded operation.
// Exactly one of JSON, Raw, or File should be set for requests with a body.
type Request struct {
	Method string
	Path   string
	// Token is attached as "Authorization: Bearer <token>" when non-empty.
	Token string
	// JSON is marshaled into the outbound body.
	JSON any
	// Raw is relayed byte-for-byte (verbatim routes).
	Raw []byte
	// File is re-encoded into a fresh multipart body.
	File *FilePart
	// Verbatim relays the upstream status and body untouched, including
	// non-2xx responses. Only transport failures are still mapped.
	Verbatim bool
}

// Result is a successful upstream outcome: transport 2xx and, unless the
// request was verbatim, no failure marker in the body.
type Result struct {
	Status int
	Body   []byte
	// ContentType is the upstream's Content-Type header, relayed so callers
	// can echo it. May be empty.
	ContentType string
}

// Decode unmarshals the result body into dst.
func (r Result) Decode(dst any) error {
	if err := json.Unmarshal(r.Body, dst); err != nil {
		return fmt.Errorf("decode upstream payload: %w", err)
	}
	return nil
}

// Do forwards the request and maps the response.
//
// The mapping rules, in order:
//   - transport failure → upstream_unreachable with a generic message
//   - verbatim requests relay every response untouched
//   - non-2xx → upstream_rejected relaying the status, message extracted
//     detail-before-error with a fixed fallback
//   - 2xx with body marker "status" != "success" → internal
//   - otherwise the raw payload is returned
//
// The proxy never fabricates a success.
func (c *Client) Do(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	res, err := c.forward(ctx, req)
	c.observe(req, err, time.Since(start))
	return res, err
}

func (c *Client) forward(ctx context.Context, req Request) (Result, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return Result{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, internalFailureMessage)
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "upstream request failed",
			"path", req.Path,
			"error", err)
		return Result{}, apperrors.UpstreamUnreachable(unreachableMessage, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.WarnContext(ctx, "close upstream response body failed", "error", cerr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, apperrors.UpstreamUnreachable(unreachableMessage, err)
	}

	if req.Verbatim {
		return Result{Status: resp.StatusCode, Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, apperrors.UpstreamRejected(resp.StatusCode, extractMessage(body))
	}

	if hasFailureMarker(body) {
		// A transport-level 2xx is not sufficient evidence of logical success.
		c.logger.WarnContext(ctx, "upstream returned 2xx with failure marker", "path", req.Path)
		return Result{}, apperrors.Internal(internalFailureMessage)
	}

	return Result{Status: resp.StatusCode, Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	var (
		body        io.Reader
		contentType string
	)

	switch {
	case req.File != nil:
		buf, ct, err := encodeMultipart(req.File)
		if err != nil {
			return nil, err
		}
		body = buf
		contentType = ct
	case req.Raw != nil:
		body = bytes.NewReader(req.Raw)
		contentType = "application/json"
	case req.JSON != nil:
		encoded, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode upstream payload: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	return httpReq, nil
}

// encodeMultipart rebuilds a fresh multipart body from the validated inbound file.
func encodeMultipart(file *FilePart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fieldName := file.FieldName
	if fieldName == "" {
		fieldName = "file"
	}

	// CreateFormFile would stamp the part application/octet-stream; the
	// validated inbound type has to survive the relay.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, file.FileName))
	if file.ContentType != "" {
		header.Set("Content-Type", file.ContentType)
	}

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err = part.Write(file.Content); err != nil {
		return nil, "", fmt.Errorf("write multipart part: %w", err)
	}
	if err = w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}

// hasFailureMarker reports whether a 2xx body carries an explicit non-success
// status field. Bodies without a status field are trusted.
func hasFailureMarker(body []byte) bool {
	var envelope struct {
		Status *string `json:"status"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false
	}
	return envelope.Status != nil && *envelope.Status != successMarker
}

func (c *Client) observe(req Request, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperrors.GetCode(err))
	}
	tags := map[string]string{"path": req.Path, "outcome": outcome}
	c.metrics.Count("upstream.request", 1, tags)
	c.metrics.Timing("upstream.request.duration", elapsed, tags)
}

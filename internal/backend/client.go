package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yourusername/tribo-console/internal/metrics"
)

// RequestIDHeader carries a per-call id so backend logs can be correlated
const RequestIDHeader = "X-Request-ID"

// Client represents the tribometer backend API client
type Client struct {
	baseURL    string
	httpClient *resty.Client
	logger     zerolog.Logger
}

// NewClient creates a new backend API client. A zero timeout disables the client-side deadline.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		httpClient.SetTimeout(timeout)
	}
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader(RequestIDHeader, uuid.NewString())
		return nil
	})

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "backend-client").Logger(),
	}
}

// BaseURL returns the backend root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPorts returns the serial ports the backend can open
func (c *Client) ListPorts(ctx context.Context) ([]string, error) {
	var ports []string
	if err := c.call(ctx, http.MethodGet, "/api/ports", c.httpClient.R(), &ports, false); err != nil {
		return nil, err
	}
	if ports == nil {
		ports = []string{}
	}
	return ports, nil
}

// Status reports whether the backend holds an open serial connection
func (c *Client) Status(ctx context.Context) (bool, error) {
	var status StatusResponse
	if err := c.call(ctx, http.MethodGet, "/api/status", c.httpClient.R(), &status, false); err != nil {
		return false, err
	}
	return status.Connected, nil
}

// Connect asks the backend to open the given serial port
func (c *Client) Connect(ctx context.Context, port string) (Ack, error) {
	ack, err := c.ack(ctx, "/api/connect", ConnectRequest{Port: port})
	if err != nil {
		return Ack{}, err
	}
	c.logger.Info().
		Str("port", port).
		Bool("ok", ack.OK).
		Str("msg", ack.Msg).
		Msg("Connect requested")
	return ack, nil
}

// Disconnect asks the backend to close the serial connection. The response body is ignored.
func (c *Client) Disconnect(ctx context.Context) error {
	if err := c.call(ctx, http.MethodPost, "/api/disconnect", c.httpClient.R(), nil, false); err != nil {
		return err
	}
	c.logger.Info().Msg("Disconnect requested")
	return nil
}

// Send forwards a raw instruction line to the device
func (c *Client) Send(ctx context.Context, command string) (Ack, error) {
	ack, err := c.ack(ctx, "/api/send", SendRequest{Command: command})
	if err != nil {
		return Ack{}, err
	}
	c.logger.Info().
		Str("command", command).
		Bool("ok", ack.OK).
		Msg("Command sent")
	return ack, nil
}

// GenerateChart asks the backend to plot the trial offset entries back from the most recent one
func (c *Client) GenerateChart(ctx context.Context, offset int) (Ack, error) {
	ack, err := c.ack(ctx, "/api/grafico", ChartRequest{Offset: offset})
	if err != nil {
		return Ack{}, err
	}
	c.logger.Info().
		Int("offset", offset).
		Bool("ok", ack.OK).
		Str("msg", ack.Msg).
		Msg("Chart generation requested")
	return ack, nil
}

// RunAnalysis asks the backend to run the batch analysis over all recorded trials
func (c *Client) RunAnalysis(ctx context.Context) (Ack, error) {
	ack, err := c.ack(ctx, "/api/analise", nil)
	if err != nil {
		return Ack{}, err
	}
	c.logger.Info().
		Bool("ok", ack.OK).
		Str("msg", ack.Msg).
		Msg("Analysis requested")
	return ack, nil
}

// Shutdown asks the backend process to exit
func (c *Client) Shutdown(ctx context.Context) (Ack, error) {
	ack, err := c.ack(ctx, "/api/shutdown", nil)
	if err != nil {
		return Ack{}, err
	}
	c.logger.Warn().
		Bool("ok", ack.OK).
		Str("msg", ack.Msg).
		Msg("Backend shutdown requested")
	return ack, nil
}

// Log returns log lines starting at the given offset
func (c *Client) Log(ctx context.Context, since int) (LogResponse, error) {
	var resp LogResponse
	req := c.httpClient.R().SetQueryParam("desde", strconv.Itoa(since))
	if err := c.call(ctx, http.MethodGet, "/api/log", req, &resp, false); err != nil {
		return LogResponse{}, err
	}
	return resp, nil
}

// Listing returns the generated images for every category
func (c *Client) Listing(ctx context.Context) (Listing, error) {
	var resp ListingResponse
	if err := c.call(ctx, http.MethodGet, "/api/graficos", c.httpClient.R(), &resp, false); err != nil {
		return nil, err
	}
	return resp.Listing(), nil
}

// FetchFile downloads the raw bytes of a gallery artifact
func (c *Client) FetchFile(ctx context.Context, name string) ([]byte, error) {
	const endpoint = "/files"
	if strings.TrimSpace(name) == "" {
		return nil, &TransportError{Method: http.MethodGet, Endpoint: endpoint, Err: errEmptyFileName}
	}

	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(http.MethodGet, endpoint).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.httpClient.R().SetContext(ctx).Get(escapeFilePath(name))
	if err != nil {
		metrics.APIErrorsTotal.WithLabelValues(http.MethodGet, endpoint, "network_error").Inc()
		return nil, &TransportError{Method: http.MethodGet, Endpoint: endpoint, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		metrics.APIErrorsTotal.WithLabelValues(http.MethodGet, endpoint, strconv.Itoa(resp.StatusCode())).Inc()
		return nil, &TransportError{
			Method:     http.MethodGet,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("fetch %s failed", name),
		}
	}
	return resp.Body(), nil
}

func (c *Client) ack(ctx context.Context, endpoint string, body any) (Ack, error) {
	req := c.httpClient.R()
	if body != nil {
		req.SetBody(body)
	}
	var ack Ack
	if err := c.call(ctx, http.MethodPost, endpoint, req, &ack, true); err != nil {
		return Ack{}, err
	}
	return ack, nil
}

// call executes req and decodes the JSON body into result, if any. With acceptErrorBody a non-2xx
// response that still decodes is returned as a result (the backend reports rejections as
// {ok:false} with a 4xx status).
func (c *Client) call(ctx context.Context, method, endpoint string, req *resty.Request, result any, acceptErrorBody bool) error {
	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}()

	resp, err := req.SetContext(ctx).Execute(method, endpoint)
	if err != nil {
		metrics.APIErrorsTotal.WithLabelValues(method, endpoint, "network_error").Inc()
		c.logger.Debug().Err(err).
			Str("method", method).
			Str("endpoint", endpoint).
			Msg("Backend request failed")
		return &TransportError{Method: method, Endpoint: endpoint, Err: err}
	}

	if resp.IsError() {
		metrics.APIErrorsTotal.WithLabelValues(method, endpoint, strconv.Itoa(resp.StatusCode())).Inc()
		if !acceptErrorBody {
			return &TransportError{
				Method:     method,
				Endpoint:   endpoint,
				StatusCode: resp.StatusCode(),
				Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(resp.Body()))),
			}
		}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		metrics.APIErrorsTotal.WithLabelValues(method, endpoint, "decode_error").Inc()
		return &TransportError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("Backend request completed")
	return nil
}

func escapeFilePath(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "/files/" + strings.Join(parts, "/")
}

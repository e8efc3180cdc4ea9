// Package api implementa los adaptadores HTTP contra el backend de la
// librería: listados paginados, documentos transaccionales, importación CSV y
// consulta de precios. Usa net/http de la librería estándar de Go; no requiere
// SDK alguno.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/invorya/libreria-client/pkg/config"
	"github.com/invorya/libreria-client/pkg/logger"
)

// HTTPError respuesta no-2xx del backend con los mensajes decodificados del
// cuerpo {"errors": [...]} cuando están presentes.
type HTTPError struct {
	StatusCode int
	Errors     []string
	Body       string
}

func (e *HTTPError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsClientError indica si el estado es 4xx (rechazo con mensajes accionables).
func (e *HTTPError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Client cliente HTTP base del backend. Los adaptadores por entidad comparten
// una instancia.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente base a partir de la configuración.
func NewClient(cfg config.APIConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

// get ejecuta GET path?query y decodifica el cuerpo 2xx en out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// send serializa body como JSON y lo envía con el método dado.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("api: serializar request: %w", err)
	}
	return c.do(ctx, method, path, nil, bytes.NewReader(raw), "application/json", out)
}

// delete ejecuta DELETE path.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

// postMultipart sube un archivo como multipart/form-data con los campos de
// formulario adicionales dados.
func (c *Client) postMultipart(ctx context.Context, path string, file io.Reader, filename string, fields map[string]string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("api: armar multipart: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("api: copiar archivo al multipart: %w", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("api: campo multipart %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("api: cerrar multipart: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("api: crear HTTP request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("api: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("api: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("api: leer respuesta: %w", err)
	}
	c.log.Debug().Str("method", method).Str("path", path).
		Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).
		Msg("llamada al backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(resp.StatusCode, rawBody)
	}
	if out == nil || len(rawBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("api: deserializar respuesta: %w", err)
	}
	return nil
}

// newHTTPError decodifica el cuerpo de error del backend. El backend publica
// los rechazos como {"errors": [...]}; cualquier otra forma queda como texto.
func newHTTPError(status int, rawBody []byte) *HTTPError {
	herr := &HTTPError{StatusCode: status, Body: string(rawBody)}
	var payload struct {
		Errors []string `json:"errors"`
		Detail string   `json:"detail"`
	}
	if err := json.Unmarshal(rawBody, &payload); err == nil {
		if len(payload.Errors) > 0 {
			herr.Errors = payload.Errors
		} else if payload.Detail != "" {
			herr.Errors = []string{payload.Detail}
		}
	}
	return herr
}

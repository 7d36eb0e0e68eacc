// Package gateway es el único cliente HTTP hacia la API de estoque: resuelve
// rutas contra la URL base, adjunta el bearer token y aplica el protocolo de
// refresh de un solo intento ante un 401.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/ports"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/pkg/jwt"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// DefaultTimeout tiempo máximo de cada petición.
const DefaultTimeout = 10 * time.Second

// RefreshPath ruta del endpoint de refresh, relativa a la URL base.
const RefreshPath = "auth/token/refresh/"

// HeaderRequestID cabecera de correlación enviada en cada petición.
const HeaderRequestID = "X-Request-ID"

// Options configuración del gateway.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient opcional; si se pasa, su Timeout se respeta tal cual.
	HTTPClient *http.Client
	// OnSessionExpired se invoca después de limpiar la sesión por un refresh fallido
	// (equivale a mandar al usuario al login).
	OnSessionExpired func()
	Logger           *logger.Logger
}

// Request describe una llamada lógica. Path es relativo a la URL base y conserva
// la barra final ("products/12/").
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body se serializa a JSON una sola vez; el reintento reenvía los mismos bytes.
	Body any
	// Accept reemplaza "application/json" (descargas binarias).
	Accept string
	// Anonymous no adjunta bearer ni intenta refresh (login, registro, refresh).
	Anonymous bool
}

// Response respuesta 2xx ya leída completa.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Gateway cliente HTTP compartido por todos los resource clients.
type Gateway struct {
	base      *url.URL
	hc        *http.Client
	store     ports.SessionStore
	log       *logger.Logger
	onExpired func()
	refreshSF singleflight.Group
}

// New construye el gateway. BaseURL debe ser absoluta.
func New(store ports.SessionStore, opts Options) (*Gateway, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("gateway: URL base inválida %q", opts.BaseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		base:      base,
		hc:        hc,
		store:     store,
		log:       log.Component("gateway"),
		onExpired: opts.OnSessionExpired,
	}, nil
}

// BaseURL URL base normalizada (con barra final).
func (g *Gateway) BaseURL() string { return g.base.String() }

// Estados de una llamada. Cada Do tiene su propia variable de estado: no hay
// banderas compartidas entre peticiones concurrentes.
type callState int

const (
	statePending callState = iota
	stateRefreshing
	stateRetryPending
)

func (s callState) String() string {
	switch s {
	case statePending:
		return "PENDING"
	case stateRefreshing:
		return "REFRESHING"
	case stateRetryPending:
		return "RETRY_PENDING"
	}
	return "UNKNOWN"
}

// Do ejecuta la petición. Errores:
//   - respuesta no-2xx: *domain.APIError
//   - 401 con refresh fallido: domain.ErrSessionExpired envolviendo el 401 original
//   - timeout: domain.ErrTimeout; red: domain.ErrNetwork; ctx cancelado: domain.ErrCancelled
func (g *Gateway) Do(ctx context.Context, req Request) (*Response, error) {
	var payload []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("gateway: serializar cuerpo: %w", err)
		}
		payload = b
	}

	state := statePending
	var (
		unauthorized error
		staleAccess  string
	)
	for {
		switch state {
		case statePending, stateRetryPending:
			access, err := g.accessToken(ctx, req)
			if err != nil {
				return nil, err
			}
			resp, err := g.send(ctx, req, payload, access, state)
			if err != nil {
				return nil, err
			}
			if resp.Status == http.StatusUnauthorized && !req.Anonymous {
				apiErr := ParseAPIError(resp.Status, resp.Body)
				if state == stateRetryPending {
					// segundo 401: terminal, sin otro refresh
					return nil, apiErr
				}
				unauthorized = apiErr
				staleAccess = access
				state = stateRefreshing
				continue
			}
			if resp.Status < 200 || resp.Status > 299 {
				return nil, ParseAPIError(resp.Status, resp.Body)
			}
			return resp, nil

		case stateRefreshing:
			if err := g.refresh(ctx, staleAccess); err != nil {
				if errors.Is(err, domain.ErrCancelled) {
					return nil, err
				}
				return nil, fmt.Errorf("%w: %w", domain.ErrSessionExpired, unauthorized)
			}
			state = stateRetryPending
		}
	}
}

// JSON ejecuta la petición y decodifica el cuerpo en out (ver DecodeJSON).
func (g *Gateway) JSON(ctx context.Context, req Request, out any) error {
	resp, err := g.Do(ctx, req)
	if err != nil {
		return err
	}
	return DecodeJSON(resp.Body, out)
}

func (g *Gateway) accessToken(ctx context.Context, req Request) (string, error) {
	if req.Anonymous {
		return "", nil
	}
	access, err := g.store.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("gateway: leer sesión: %w", err)
	}
	return access, nil
}

func (g *Gateway) resolve(path string, query url.Values) *url.URL {
	ref := &url.URL{Path: strings.TrimPrefix(path, "/")}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	return g.base.ResolveReference(ref)
}

func (g *Gateway) send(ctx context.Context, req Request, payload []byte, access string, state callState) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	target := g.resolve(req.Path, req.Query)
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("gateway: construir petición: %w", err)
	}
	accept := req.Accept
	if accept == "" {
		accept = "application/json"
	}
	httpReq.Header.Set("Accept", accept)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}
	requestID := uuid.New().String()
	httpReq.Header.Set(HeaderRequestID, requestID)

	start := time.Now()
	httpResp, err := g.hc.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer httpResp.Body.Close()
	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}

	ev := g.log.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", httpResp.StatusCode).
		Str("request_id", requestID).
		Str("state", state.String()).
		Dur("duration", time.Since(start))
	if access != "" {
		if claims, err := jwt.Peek(access); err == nil {
			ev = ev.Int64("user_id", claims.UserID)
		}
	}
	ev.Msg("api request")

	return &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

// refresh obtiene un access token nuevo. Peticiones concurrentes que reciben
// 401 comparten una sola llamada al endpoint. Si otra petición ya refrescó
// (el token guardado difiere del que produjo el 401) no se vuelve a llamar;
// si otra ya cerró la sesión, tampoco se repite el cierre.
// Un refresh fallido cierra la sesión una sola vez, dentro del vuelo compartido.
func (g *Gateway) refresh(ctx context.Context, staleAccess string) error {
	current, err := g.store.AccessToken(ctx)
	if err != nil {
		g.expire(ctx, err)
		return err
	}
	switch {
	case current != "" && current != staleAccess:
		return nil
	case current == "" && staleAccess != "":
		return errSessionClosed
	}
	ch := g.refreshSF.DoChan("refresh", func() (any, error) {
		fctx := context.WithoutCancel(ctx)
		err := g.doRefresh(fctx)
		if err != nil {
			g.expire(fctx, err)
		}
		return nil, err
	})
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
	case res := <-ch:
		return res.Err
	}
}

func (g *Gateway) doRefresh(ctx context.Context) error {
	refresh, err := g.store.RefreshToken(ctx)
	if err != nil {
		return err
	}
	if refresh == "" {
		return errors.New("no hay refresh token")
	}
	resp, err := g.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      RefreshPath,
		Body:      dto.RefreshRequest{Refresh: refresh},
		Anonymous: true,
	})
	if err != nil {
		return err
	}
	var out dto.RefreshResponse
	if err := DecodeJSON(resp.Body, &out); err != nil {
		return err
	}
	if err := g.store.SetAccessToken(ctx, out.Access, out.Refresh); err != nil {
		return err
	}
	g.log.Info().Bool("rotated", out.Refresh != "").Msg("access token renovado")
	return nil
}

// errSessionClosed otra petición ya cerró la sesión tras un refresh fallido.
var errSessionClosed = errors.New("sesión ya cerrada")

func (g *Gateway) expire(ctx context.Context, cause error) {
	g.log.Warn().Err(cause).Msg("refresh fallido: sesión cerrada")
	if err := g.store.Clear(context.WithoutCancel(ctx)); err != nil {
		g.log.Error().Err(err).Msg("no se pudo limpiar la sesión")
	}
	if g.onExpired != nil {
		g.onExpired()
	}
}

// classifyTransport traduce errores de red a los sentinels de dominio.
func classifyTransport(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
}

// Package server serves the chart page over fasthttp.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/buaazp/fasthttprouter"
	"github.com/mailru/easyjson"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"

	"FinChart/internal/loader"
)

// FailureRenderer writes the page shown in place of the chart.
// *loader.ChartLoader satisfies it.
type FailureRenderer interface {
	RenderFailure(w io.Writer, err error) error
}

// HandlerSettings describes one route.
type HandlerSettings struct {
	Path    string
	Method  string
	Handler fasthttp.RequestHandler
}

// MakeFastHTTPRouter registers the given routes on a new router.
func MakeFastHTTPRouter(settings []*HandlerSettings) *fasthttprouter.Router {
	router := fasthttprouter.New()
	for _, s := range settings {
		router.Handle(s.Method, s.Path, s.Handler)
	}
	return router
}

// Server runs one chart load per page request.
type Server struct {
	svc      loader.Service
	failures FailureRenderer
	timeout  time.Duration
}

// New creates a Server. timeout bounds each load.
func New(svc loader.Service, failures FailureRenderer, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{svc: svc, failures: failures, timeout: timeout}
}

// Router returns the chart routes. /metrics is added by the Prometheus
// wrapper in main.
func (s *Server) Router() *fasthttprouter.Router {
	return MakeFastHTTPRouter([]*HandlerSettings{
		{Path: "/", Method: http.MethodGet, Handler: s.servePage},
		{Path: "/series.json", Method: http.MethodGet, Handler: s.serveSeries},
		{Path: "/healthz", Method: http.MethodGet, Handler: s.serveHealth},
	})
}

// initialize bounds the load by the request: a server shutdown cancels
// an in-flight upstream fetch.
func (s *Server) initialize(ctx *fasthttp.RequestCtx) (*loader.Result, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.svc.Initialize(timeoutCtx)
}

func (s *Server) servePage(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Cache-Control", "no-store")
	ctx.SetContentType("text/html; charset=utf-8")

	res, err := s.initialize(ctx)
	if err != nil {
		ctx.SetStatusCode(statusFor(err))
		if rerr := s.failures.RenderFailure(ctx, err); rerr != nil {
			log.Errorf("render failure page: %v", rerr)
			ctx.SetBodyString("chart unavailable")
		}
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(res.Page)
}

func (s *Server) serveSeries(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Cache-Control", "no-store")
	ctx.SetContentType("application/json")

	res, err := s.initialize(ctx)
	if err != nil {
		ctx.SetStatusCode(statusFor(err))
		body := &errorResponse{Error: loader.Outcome(err), Message: "chart unavailable"}
		var le *loader.LoadError
		if errors.As(err, &le) {
			body.Message = le.Message()
			body.LoadID = le.LoadID
		}
		writeJSON(ctx, body)
		return
	}

	body := &seriesResponse{LoadID: res.LoadID, Series: res.Series}
	if w := ctx.QueryArgs().Peek("width"); len(w) > 0 {
		width, perr := strconv.Atoi(string(w))
		if perr != nil || width <= 0 {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			writeJSON(ctx, &errorResponse{Error: "bad_request", Message: "width must be a positive integer"})
			return
		}
		legend := res.Chart.ResolveLegend(width)
		body.Legend = &legend
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSON(ctx, body)
}

func (s *Server) serveHealth(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.SetBodyString("ok")
}

func writeJSON(ctx *fasthttp.RequestCtx, v easyjson.Marshaler) {
	if _, err := easyjson.MarshalToWriter(v, ctx); err != nil {
		log.Errorf("encode response: %v", err)
	}
}

// statusFor maps a load failure to an HTTP status: upstream problems are
// 502, local rendering problems 500.
func statusFor(err error) int {
	var le *loader.LoadError
	if !errors.As(err, &le) {
		return fasthttp.StatusInternalServerError
	}
	switch le.Kind {
	case loader.KindFetchFailure, loader.KindMalformedPayload:
		return fasthttp.StatusBadGateway
	default:
		return fasthttp.StatusInternalServerError
	}
}

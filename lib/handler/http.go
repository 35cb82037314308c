package handler

import (
	"encoding/base64"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"qualityhome/lib/api"
)

const maxRequestBodyBytes = 64 << 20

// Routes exposes the intake API over net/http for local development. Each request is
// converted to the API Gateway shape and served by Handle.
func (h *IntakeHandler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(h.requestLogger)

	router.Post("/avaliacoes", h.serve("/avaliacoes"))
	router.Get("/avaliacoes", h.serve("/avaliacoes"))
	router.Post("/avaliacoes/validar", h.serve("/avaliacoes/validar"))
	router.Get("/avaliacoes/{laudo_id}", h.serve("/avaliacoes/{laudo_id}"))
	router.Post("/avaliacoes/{laudo_id}/laudo-pdf", h.serve("/avaliacoes/{laudo_id}/laudo-pdf"))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return router
}

func (h *IntakeHandler) serve(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
		if err != nil {
			writeProxyResponse(w, api.ErrorResponse(http.StatusRequestEntityTooLarge, "Corpo da requisição muito grande", h.Logger), h.Logger)
			return
		}

		request := events.APIGatewayProxyRequest{
			Resource:              resource,
			Path:                  r.URL.Path,
			HTTPMethod:            r.Method,
			Headers:               map[string]string{},
			QueryStringParameters: map[string]string{},
			PathParameters:        map[string]string{},
			Body:                  string(body),
			RequestContext: events.APIGatewayProxyRequestContext{
				RequestID: middleware.GetReqID(r.Context()),
			},
		}
		for name := range r.Header {
			request.Headers[name] = r.Header.Get(name)
		}
		for name := range r.URL.Query() {
			request.QueryStringParameters[name] = r.URL.Query().Get(name)
		}
		if laudoID := chi.URLParam(r, "laudo_id"); laudoID != "" {
			request.PathParameters["laudo_id"] = laudoID
		}

		response, err := h.Handle(r.Context(), request)
		if err != nil {
			h.Logger.WithError(err).Error("Handler returned an error")
			response = api.ErrorResponse(http.StatusInternalServerError, "Erro interno do servidor", h.Logger)
		}
		writeProxyResponse(w, response, h.Logger)
	}
}

func writeProxyResponse(w http.ResponseWriter, response events.APIGatewayProxyResponse, logger *logrus.Logger) {
	body := []byte(response.Body)
	if response.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(response.Body)
		if err != nil {
			logger.WithError(err).Error("Invalid base64 response body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = decoded
	}

	// CORS headers already set by the server middleware win over the Lambda defaults
	for name, value := range response.Headers {
		if w.Header().Get(name) != "" {
			continue
		}
		w.Header().Set(name, value)
	}
	w.WriteHeader(response.StatusCode)
	_, _ = w.Write(body)
}

func (h *IntakeHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.Logger.WithFields(logrus.Fields{
			"operation":   "http",
			"request_id":  middleware.GetReqID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Request served")
	})
}

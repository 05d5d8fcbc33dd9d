package server

import (
	"context"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/HavenSelph/NamelessBot/whitelist"
)

// Service exposes a read-only HTTP API over the whitelist
type Service struct {
	whitelist *whitelist.Service
	router    *mux.Router
	server    *http.Server
	logger    *logrus.Entry
}

// NewService creates the http service and registers all routes
func NewService(wl *whitelist.Service, logger *logrus.Entry) *Service {
	svc := &Service{
		whitelist: wl,
		router:    mux.NewRouter().StrictSlash(true),
		logger:    logger,
	}
	svc.routes()
	return svc
}

// Listen opens up the http port for the REST API
func (svc *Service) Listen(port string) error {
	log := svc.logger
	log.WithFields(logrus.Fields{
		"port": port,
	}).Info("The API http server starts listening")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	})
	handler := c.Handler(svc.router)

	// capture http related metrics
	wrappedH := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(handler, w, r)
		svc.logger.Infof("%s %s (code=%d dt=%s)",
			r.Method,
			r.URL,
			m.Code,
			m.Duration,
		)
	})

	svc.server = &http.Server{Addr: port, Handler: wrappedH}
	if err := svc.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the http server gracefully
func (svc *Service) Shutdown() {
	if svc.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.server.Shutdown(ctx); err != nil {
		svc.logger.WithFields(logrus.Fields{
			"err": err.Error(),
		}).Error("Unable to shut down http server cleanly")
	}
}

// Handler exposes the configured router for testing
func (svc *Service) Handler() http.Handler {
	return svc.router
}

func (svc *Service) routes() {
	s := svc.router.PathPrefix("/api/v1").Subrouter()
	s.HandleFunc("/health", svc.handleHealth()).Methods("GET")
	s.HandleFunc("/entries", svc.handleGetEntries()).Methods("GET")
	s.HandleFunc("/stats", svc.handleGetStats()).Methods("GET")
}

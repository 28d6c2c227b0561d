package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/valpere/mstranslate/internal/logging"
)

// Path is where the collectors are exposed.
const Path = "/metrics"

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Server exposes Handler on its own listener while a command runs.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	logger *logrus.Logger
}

// Serve starts listening on addr and serves Path in the background. Bind
// errors are returned immediately.
func Serve(addr string, logger *logrus.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(Path, Handler())

	s := &Server{
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:     ln,
		logger: logger,
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Metrics server stopped")
		}
	}()

	logger.WithField("addr", s.Addr()).Info("Serving metrics")
	return s, nil
}

// Addr is the address actually bound, useful with port 0.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

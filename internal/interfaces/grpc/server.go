// Package grpc hosts the platform's gRPC endpoint.  The API surface is
// HTTP-first; this server exists for the standard grpc_health_v1 health
// protocol that load balancers and service meshes probe, so no bespoke
// service protos are registered.
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
)

const (
	defaultMaxRecvMsgSize  = 4 * 1024 * 1024
	defaultMaxSendMsgSize  = 4 * 1024 * 1024
	defaultGracefulTimeout = 10 * time.Second
)

var defaultKeepaliveParams = keepalive.ServerParameters{
	MaxConnectionIdle: 15 * time.Minute,
	MaxConnectionAge:  30 * time.Minute,
	Time:              5 * time.Minute,
	Timeout:           time.Second,
}

// Options tunes the server.  The zero value is usable.
type Options struct {
	// MaxRecvMsgSize / MaxSendMsgSize bound message sizes in bytes.
	MaxRecvMsgSize int
	MaxSendMsgSize int

	// GracefulTimeout bounds how long Stop waits for in-flight RPCs before
	// forcing the connections closed.
	GracefulTimeout time.Duration

	// Reflection registers the reflection service so grpcurl can explore the
	// endpoint.  Debug builds only.
	Reflection bool
}

func (o *Options) applyDefaults() {
	if o.MaxRecvMsgSize <= 0 {
		o.MaxRecvMsgSize = defaultMaxRecvMsgSize
	}
	if o.MaxSendMsgSize <= 0 {
		o.MaxSendMsgSize = defaultMaxSendMsgSize
	}
	if o.GracefulTimeout <= 0 {
		o.GracefulTimeout = defaultGracefulTimeout
	}
}

// Server wraps a grpc.Server with the health service pre-registered and a
// graceful shutdown path.
type Server struct {
	srv      *grpc.Server
	health   *health.Server
	logger   logging.Logger
	listener net.Listener
	timeout  time.Duration

	mu      sync.Mutex
	started bool
}

// NewServer creates the server and binds its TCP listener immediately so
// port conflicts surface at wiring time, not at Start.  Port 0 picks a free
// port, which tests rely on.
func NewServer(port int, logger logging.Logger, opts Options) (*Server, error) {
	opts.applyDefaults()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("grpc: listen on port %d: %w", port, err)
	}

	logger = logger.Named("grpc")

	srv := grpc.NewServer(
		grpc.MaxRecvMsgSize(opts.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(opts.MaxSendMsgSize),
		grpc.KeepaliveParams(defaultKeepaliveParams),
		grpc.ChainUnaryInterceptor(
			recoveryInterceptor(logger),
			loggingInterceptor(logger),
		),
	)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)

	if opts.Reflection {
		reflection.Register(srv)
	}

	return &Server{
		srv:      srv,
		health:   healthSrv,
		logger:   logger,
		listener: listener,
		timeout:  opts.GracefulTimeout,
	}, nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// SetServing flips the overall health status reported to probes.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	// Empty service name is the conventional "whole server" key.
	s.health.SetServingStatus("", st)
}

// Start serves until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("grpc: server already started")
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info("grpc server listening", logging.String("addr", s.Addr()))
	return s.srv.Serve(s.listener)
}

// Stop drains in-flight RPCs within the graceful timeout, then forces the
// remaining connections closed.
func (s *Server) Stop() {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("grpc server stopped gracefully")
	case <-time.After(s.timeout):
		s.logger.Warn("grpc graceful stop timed out, forcing shutdown")
		s.srv.Stop()
	}
}

// recoveryInterceptor converts handler panics into codes.Internal instead of
// crashing the process.
func recoveryInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc handler panic",
					logging.String("method", info.FullMethod),
					logging.Any("panic", r),
					logging.String("stack", string(debug.Stack())),
				)
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// loggingInterceptor records method outcomes.  Health checks are excluded so
// probe traffic does not drown the logs.
func loggingInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
			return handler(ctx, req)
		}

		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []logging.Field{
			logging.String("method", info.FullMethod),
			logging.String("code", code.String()),
			logging.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.Warn("grpc request failed", append(fields, logging.Err(err))...)
		} else {
			logger.Debug("grpc request served", fields...)
		}
		return resp, err
	}
}

//Personal.AI order the ending

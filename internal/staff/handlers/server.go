// Package handlers exposes the staff services over HTTP, routed through the
// grpc-gateway runtime mux, next to a gRPC server that reports health.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gartstein/staff/internal/staff/models"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CompanyController defines the company operations the HTTP handlers invoke.
type CompanyController interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
	UpdateCompany(ctx context.Context, id uint, partial map[string]any) (*models.Company, error)
	DeleteCompany(ctx context.Context, id uint) error
}

// EmployeeController defines the employee operations the HTTP handlers invoke.
type EmployeeController interface {
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	CreateEmployee(ctx context.Context, in models.EmployeeInput) (*models.Employee, error)
	GetEmployee(ctx context.Context, id uint) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id uint, partial map[string]any) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uint) error
}

// Server holds references to both a gRPC server and an HTTP server.
type Server struct {
	grpcServer   *grpc.Server
	health       *health.Server
	httpServer   *http.Server
	logger       *zap.Logger
	grpcEndpoint string
	httpEndpoint string
}

// NewServer constructs a Server with separate endpoints for gRPC and HTTP.
func NewServer(
	grpcPort int,
	httpPort int,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	grpcServer := grpc.NewServer(grpcOpts...)
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		grpcServer:   grpcServer,
		health:       healthServer,
		httpServer:   &http.Server{ReadHeaderTimeout: 10 * time.Second},
		logger:       logger.Named("server"),
		grpcEndpoint: fmt.Sprintf(":%d", grpcPort),
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
}

// RegisterHTTPHandlers routes the company and employee endpoints on a
// grpc-gateway mux and installs it as the HTTP server's handler.
func (s *Server) RegisterHTTPHandlers(companies CompanyController, employees EmployeeController) error {
	mux := runtime.NewServeMux()

	if err := NewCompanyHandler(companies, s.logger).Register(mux); err != nil {
		return fmt.Errorf("register company routes: %w", err)
	}
	if err := NewEmployeeHandler(employees, s.logger).Register(mux); err != nil {
		return fmt.Errorf("register employee routes: %w", err)
	}
	if err := mux.HandlePath(http.MethodGet, "/healthcheck", healthcheck); err != nil {
		return fmt.Errorf("register healthcheck: %w", err)
	}

	s.httpServer.Handler = accessLog(s.logger.Named("http"), trimTrailingSlash(mux))
	s.httpServer.Addr = s.httpEndpoint
	return nil
}

// HTTPHandler returns the handler installed by RegisterHTTPHandlers.
func (s *Server) HTTPHandler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the gRPC and HTTP servers concurrently, returning on the first error.
func (s *Server) Start() error {
	if s.httpServer.Handler == nil {
		return errors.New("HTTP handlers not registered")
	}

	var wg sync.WaitGroup
	wg.Add(2)
	errChan := make(chan error, 2)

	go func() {
		defer wg.Done()
		s.logger.Info("Starting gRPC server", zap.String("endpoint", s.grpcEndpoint))
		lis, err := net.Listen("tcp", s.grpcEndpoint)
		if err != nil {
			errChan <- fmt.Errorf("gRPC listen error: %w", err)
			return
		}
		s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		if err := s.grpcServer.Serve(lis); err != nil {
			errChan <- fmt.Errorf("gRPC serve error: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpEndpoint))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP serve error: %w", err)
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully shuts down both gRPC and HTTP servers.
func (s *Server) Stop() {
	s.logger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Servers stopped")
}

func healthcheck(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeText(w, http.StatusOK, "ok")
}

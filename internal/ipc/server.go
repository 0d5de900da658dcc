package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"fixify/internal/daemon"
	"fixify/internal/logging"
	"fixify/internal/reports"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. onStop is
// invoked when a client requests daemon shutdown.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger, onStop func()) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx, onStop: onStop}
	if err := rpcServer.RegisterName("Fixify", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually or rerun fixify daemon stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
	onStop func()
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) SignIn(req SignInRequest, resp *SignInResponse) error {
	session, err := s.daemon.SignIn(s.ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	resp.Email = session.Email
	resp.SignedIn = session.SignedIn.Format("2006-01-02T15:04:05Z07:00")
	return nil
}

func (s *service) SignOut(_ SignOutRequest, resp *SignOutResponse) error {
	if err := s.daemon.SignOut(s.ctx); err != nil {
		return err
	}
	resp.SignedOut = true
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.LockPath = status.LockFilePath
	resp.SessionEmail = status.SessionEmail
	resp.Capture = FromSnapshot(status.Capture)
	resp.ReportStats = map[string]int{
		"total":     status.Reports.Total,
		"pending":   status.Reports.Pending,
		"reviewing": status.Reports.Reviewing,
		"completed": status.Reports.Completed,
	}
	resp.Dependencies = append(resp.Dependencies, status.Dependencies...)
	return nil
}

func (s *service) AcquireCamera(_ CaptureRequest, resp *CaptureResponse) error {
	snapshot, err := s.daemon.AcquireCamera(s.ctx)
	resp.Capture = FromSnapshot(snapshot)
	return err
}

func (s *service) RecordStart(_ CaptureRequest, resp *CaptureResponse) error {
	snapshot, err := s.daemon.StartRecording(s.ctx)
	resp.Capture = FromSnapshot(snapshot)
	return err
}

func (s *service) RecordStop(_ CaptureRequest, resp *CaptureResponse) error {
	snapshot, err := s.daemon.StopRecording(s.ctx)
	resp.Capture = FromSnapshot(snapshot)
	return err
}

func (s *service) ResetCapture(_ CaptureRequest, resp *CaptureResponse) error {
	snapshot, err := s.daemon.ResetCapture(s.ctx)
	resp.Capture = FromSnapshot(snapshot)
	return err
}

func (s *service) Submit(req SubmitRequest, resp *SubmitResponse) error {
	report, err := s.daemon.Submit(s.ctx, req.Description)
	if report != nil {
		resp.Report = FromReport(report)
		resp.Message = report.StatusDetail
	}
	if err != nil && report != nil {
		// The failure already settled into the report; surface it there
		// instead of as an RPC error so the CLI can render the reviewing row.
		return nil
	}
	return err
}

func (s *service) ReportList(req ReportListRequest, resp *ReportListResponse) error {
	statuses := make([]reports.Status, 0, len(req.Statuses))
	for _, status := range req.Statuses {
		parsed, ok := reports.ParseStatus(status)
		if !ok {
			continue
		}
		statuses = append(statuses, parsed)
	}
	items, err := s.daemon.ListReports(s.ctx, statuses)
	if err != nil {
		return err
	}
	resp.Reports = make([]Report, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		resp.Reports = append(resp.Reports, FromReport(item))
	}
	return nil
}

func (s *service) ReportDescribe(req ReportDescribeRequest, resp *ReportDescribeResponse) error {
	if req.ID == "" {
		return errors.New("report id is required")
	}
	report, err := s.daemon.GetReport(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("report %s not found", req.ID)
	}
	resp.Report = FromReport(report)
	return nil
}

func (s *service) TestConnection(_ TestConnectionRequest, resp *TestConnectionResponse) error {
	resp.Reachable = s.daemon.TestConnection(s.ctx)
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Info("daemon stop requested via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	resp.Stopped = true
	if s.onStop != nil {
		go s.onStop()
	}
	return nil
}

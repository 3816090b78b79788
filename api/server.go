package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-maze3d/gameencoder"
	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/service"
	"github.com/beka-birhanu/vinom-maze3d/service/i"
	"github.com/google/uuid"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ i.GameSessionManager = (*service.GameSessionManager)(nil)

// Server exposes a GameSessionManager over gRPC.
type Server struct {
	gameSessionManager i.GameSessionManager
	logger             general_i.Logger

	UnimplementedMazeSessionServer
}

func RegisterMazeSession(gsr grpc.ServiceRegistrar, gsm i.GameSessionManager, logger general_i.Logger) error {
	if gsm == nil {
		return errors.New("nil game session manager")
	}
	server := &Server{
		gameSessionManager: gsm,
		logger:             logger,
	}

	RegisterMazeSessionServer(gsr, server)
	return nil
}

func (s *Server) NewSession(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	id, err := s.gameSessionManager.NewSession()
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Snapshot(ctx context.Context, r *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := parseSessionID(r.GetValue())
	if err != nil {
		return nil, err
	}
	snap, err := s.gameSessionManager.Snapshot(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return snapshotStruct(snap)
}

// SendAction takes a struct holding a sessionId plus the fields of a
// gameencoder.Action.
func (s *Server) SendAction(ctx context.Context, r *structpb.Struct) (*emptypb.Empty, error) {
	var req struct {
		SessionID string `json:"sessionId"`
		gameencoder.Action
	}
	raw, err := decodeStruct(r, &req)
	if err != nil {
		return nil, err
	}
	id, err := parseSessionID(req.SessionID)
	if err != nil {
		return nil, err
	}
	action, err := (&gameencoder.JSON{}).UnmarshalAction(raw)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.gameSessionManager.Dispatch(ctx, id, action); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

// CheckCollision takes {"sessionId": ..., "position": [x, y, z]}.
func (s *Server) CheckCollision(ctx context.Context, r *structpb.Struct) (*wrapperspb.BoolValue, error) {
	var req struct {
		SessionID string      `json:"sessionId"`
		Position  *[3]float64 `json:"position"`
	}
	if _, err := decodeStruct(r, &req); err != nil {
		return nil, err
	}
	id, err := parseSessionID(req.SessionID)
	if err != nil {
		return nil, err
	}
	if req.Position == nil {
		return nil, status.Error(codes.InvalidArgument, "missing position")
	}
	pos := geometry.Vec3{X: req.Position[0], Y: req.Position[1], Z: req.Position[2]}
	hit, err := s.gameSessionManager.CheckPlayerCollision(ctx, id, pos)
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.Bool(hit), nil
}

// Watch streams a snapshot for every state change of a session until the
// session ends or the client goes away.
func (s *Server) Watch(r *wrapperspb.StringValue, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	id, err := parseSessionID(r.GetValue())
	if err != nil {
		return err
	}
	updates, cancel, err := s.gameSessionManager.Subscribe(id)
	if err != nil {
		return toStatus(err)
	}
	defer cancel()

	ctx := stream.Context()
	send := func() error {
		snap, err := s.gameSessionManager.Snapshot(ctx, id)
		if err != nil {
			return toStatus(err)
		}
		msg, err := snapshotStruct(snap)
		if err != nil {
			return err
		}
		return stream.Send(msg)
	}

	if err := send(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-updates:
			if !ok {
				return nil
			}
			if err := send(); err != nil {
				if s.logger != nil {
					s.logger.Warning(fmt.Sprintf("watch %s: %s", id, err))
				}
				return err
			}
		}
	}
}

func parseSessionID(v string) (uuid.UUID, error) {
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "parsing session id: %s", err)
	}
	return id, nil
}

func snapshotStruct(snap service.Snapshot) (*structpb.Struct, error) {
	b, err := json.Marshal(gameencoder.FromSnapshot(snap))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding snapshot: %s", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encoding snapshot: %s", err)
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding snapshot: %s", err)
	}
	return st, nil
}

// decodeStruct unpacks r into v through its JSON form and returns that form.
func decodeStruct(r *structpb.Struct, v interface{}) ([]byte, error) {
	b, err := json.Marshal(r.AsMap())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := json.Unmarshal(b, v); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return b, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrGameStopped):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrNoMaze), errors.Is(err, service.ErrNotAtExit):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrUnknownAction):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrTooManySessions):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

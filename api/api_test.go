package api

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-maze3d/gameencoder"
	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/beka-birhanu/vinom-maze3d/maze"
	"github.com/beka-birhanu/vinom-maze3d/service"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func newTestLogger(t *testing.T) general_i.Logger {
	t.Helper()
	l, err := logger.New("TEST", "", io.Discard)
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}
	return l
}

func newTestManager(t *testing.T) *service.GameSessionManager {
	t.Helper()
	settings := geometry.DefaultSettings()
	settings.GridSize = 11
	m, err := service.NewGameSessionManager(&service.Config{
		Settings: settings,
		MazeFactory: func() maze.Generator {
			return maze.NewBacktracker(settings.GridSize, 0.1, rand.New(rand.NewSource(1)))
		},
		RandFactory:  func() maze.Rand { return rand.New(rand.NewSource(2)) },
		GameEncoder:  &gameencoder.JSON{},
		Logger:       newTestLogger(t),
		TickInterval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	t.Cleanup(m.StopAll)
	return m
}

func waitForIntro(t *testing.T, m *service.GameSessionManager, id uuid.UUID) service.Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		snap, err := m.Snapshot(context.Background(), id)
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if snap.State == service.StateIntro {
			return snap
		}
		select {
		case <-deadline:
			t.Fatalf("session never reached intro, state %s", snap.State)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func newGRPCClient(t *testing.T, m *service.GameSessionManager) MazeSessionClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	if err := RegisterMazeSession(srv, m, newTestLogger(t)); err != nil {
		t.Fatalf("register: %v", err)
	}
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewMazeSessionClient(conn)
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("struct: %v", err)
	}
	return s
}

func TestGRPCSessionFlow(t *testing.T) {
	m := newTestManager(t)
	client := newGRPCClient(t, m)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.NewSession(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	id := uuid.MustParse(resp.GetValue())
	snap := waitForIntro(t, m, id)

	st, err := client.Snapshot(ctx, wrapperspb.String(id.String()))
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	fields := st.GetFields()
	if fields["state"].GetStringValue() != "intro" || int(fields["size"].GetNumberValue()) != 11 {
		t.Fatalf("unexpected snapshot %v", st)
	}
	if rows := fields["grid"].GetListValue().GetValues(); len(rows) != 11 {
		t.Fatalf("expected 11 grid rows, got %d", len(rows))
	}
	wire := fields["settings"].GetStructValue().GetFields()
	if int(wire["gridSize"].GetNumberValue()) != 11 || wire["laserSpeed"].GetNumberValue() != snap.Settings.LaserSpeed {
		t.Fatalf("unexpected settings %v", fields["settings"])
	}
	if wire["cellSize"].GetNumberValue() != snap.Settings.CellSize || wire["wallHeight"].GetNumberValue() != snap.Settings.WallHeight {
		t.Fatalf("unexpected settings %v", fields["settings"])
	}

	if _, err := client.SendAction(ctx, mustStruct(t, map[string]interface{}{
		"sessionId": id.String(),
		"type":      "play",
	})); err != nil {
		t.Fatalf("play: %v", err)
	}
	_, err = client.SendAction(ctx, mustStruct(t, map[string]interface{}{
		"sessionId": id.String(),
		"type":      "play",
	}))
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", err)
	}

	s := snap.Settings
	start := s.GridToWorldCenter(snap.Grid.Start(), s.PlayerHeight)
	hit, err := client.CheckCollision(ctx, mustStruct(t, map[string]interface{}{
		"sessionId": id.String(),
		"position":  []interface{}{start.X, start.Y, start.Z},
	}))
	if err != nil || hit.GetValue() {
		t.Fatalf("start should be walkable: %v %v", hit, err)
	}
	hit, err = client.CheckCollision(ctx, mustStruct(t, map[string]interface{}{
		"sessionId": id.String(),
		"position":  []interface{}{-1000.0, 1.6, 0.0},
	}))
	if err != nil || !hit.GetValue() {
		t.Fatalf("outside the maze should collide: %v %v", hit, err)
	}
}

func TestGRPCErrors(t *testing.T) {
	m := newTestManager(t)
	client := newGRPCClient(t, m)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := client.Snapshot(ctx, wrapperspb.String("not-a-uuid"))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	_, err = client.Snapshot(ctx, wrapperspb.String(uuid.NewString()))
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	resp, err := client.NewSession(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	_, err = client.SendAction(ctx, mustStruct(t, map[string]interface{}{
		"sessionId": resp.GetValue(),
		"type":      "teleport",
	}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for unknown action, got %v", err)
	}
	_, err = client.CheckCollision(ctx, mustStruct(t, map[string]interface{}{
		"sessionId": resp.GetValue(),
	}))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for missing position, got %v", err)
	}
}

func TestGRPCWatch(t *testing.T) {
	m := newTestManager(t)
	client := newGRPCClient(t, m)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := client.NewSession(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	stream, err := client.Watch(ctx, resp)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	for {
		msg, err := stream.Recv()
		if err != nil {
			t.Fatalf("recv: %v", err)
		}
		if msg.GetFields()["state"].GetStringValue() == "intro" {
			break
		}
	}

	if err := m.CloseSession(uuid.MustParse(resp.GetValue())); err != nil {
		t.Fatalf("close: %v", err)
	}
	for {
		if _, err := stream.Recv(); err != nil {
			if err != io.EOF && status.Code(err) != codes.NotFound {
				t.Fatalf("unexpected stream end: %v", err)
			}
			return
		}
	}
}

func newHTTPTestServer(t *testing.T, m *service.GameSessionManager) *httptest.Server {
	t.Helper()
	h, err := NewHTTPServer(&HTTPConfig{
		GameSessionManager: m,
		Logger:             newTestLogger(t),
	})
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func createSession(t *testing.T, srv *httptest.Server) uuid.UUID {
	t.Helper()
	resp, err := http.Post(srv.URL+"/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var body struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return uuid.MustParse(body.SessionID)
}

func TestHTTPSessionRoutes(t *testing.T) {
	m := newTestManager(t)
	srv := newHTTPTestServer(t, m)

	id := createSession(t, srv)
	waitForIntro(t, m, id)

	resp, err := http.Get(srv.URL + "/sessions/" + id.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var snap gameencoder.Snapshot
	err = json.NewDecoder(resp.Body).Decode(&snap)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.State != "intro" || snap.Size != 11 || snap.Settings.GridSize != 11 || snap.Settings.LaserLifetimeMs <= 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/sessions/nope", http.StatusBadRequest},
		{"/sessions/" + uuid.NewString(), http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := http.Get(srv.URL + tt.path)
		if err != nil {
			t.Fatalf("get %s: %v", tt.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.path, tt.want, resp.StatusCode)
		}
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/sessions/"+id.String(), nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

func TestWebsocketSession(t *testing.T) {
	m := newTestManager(t)
	srv := newHTTPTestServer(t, m)
	id := createSession(t, srv)
	waitForIntro(t, m, id)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id.String() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	readUntil := func(match func(map[string]interface{}) bool) {
		t.Helper()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			var m map[string]interface{}
			if err := json.Unmarshal(msg, &m); err != nil {
				t.Fatalf("decode %s: %v", msg, err)
			}
			if match(m) {
				return
			}
		}
	}

	readUntil(func(m map[string]interface{}) bool { return m["state"] == "intro" })

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"play"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(func(m map[string]interface{}) bool { return m["state"] == "playing" })

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(func(m map[string]interface{}) bool {
		_, ok := m["error"]
		return ok && m["state"] == nil
	})
}

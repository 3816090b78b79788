package config

import (
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
)

func TestInitConfigDefaults(t *testing.T) {
	t.Setenv("GRPC_PORT", "9090")
	t.Setenv("HTTP_PORT", "8080")

	c := initConfig()
	if c.GrpcPort != 9090 || c.HTTPPort != 8080 {
		t.Fatalf("unexpected ports %d %d", c.GrpcPort, c.HTTPPort)
	}
	if c.ProxyIP != "0.0.0.0" || c.MaxSessions != 64 || c.TickInterval != 100*time.Millisecond {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.BinaryMessages {
		t.Fatalf("json is the default message format")
	}
	if c.IdleTimeout != 5*time.Minute {
		t.Fatalf("idle timeout = %s, want 5m", c.IdleTimeout)
	}
	if c.MazeAlgorithm != "wilson" {
		t.Fatalf("wilson is the default algorithm, got %q", c.MazeAlgorithm)
	}
	if c.Maze != geometry.DefaultSettings() {
		t.Fatalf("expected default maze settings, got %+v", c.Maze)
	}
}

func TestInitConfigOverrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "1")
	t.Setenv("HTTP_PORT", "2")
	t.Setenv("MAZE_GRID_SIZE", "21")
	t.Setenv("MAZE_CELL_SIZE", "2.5")
	t.Setenv("LASER_LIFETIME_MS", "500")
	t.Setenv("MAZE_BRAIDING", "0.4")
	t.Setenv("MESSAGE_FORMAT", "msgpack")
	t.Setenv("MAZE_ALGORITHM", "backtracker")
	t.Setenv("SESSION_IDLE_TIMEOUT_S", "0")

	c := initConfig()
	if c.Maze.GridSize != 21 || c.Maze.CellSize != 2.5 || c.Maze.LaserLifetime != 500*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", c.Maze)
	}
	if c.Braiding != 0.4 || !c.BinaryMessages || c.MazeAlgorithm != "backtracker" || c.IdleTimeout != 0 {
		t.Fatalf("overrides not applied: %+v", c)
	}
}

package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-maze3d/geometry"
	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	ProxyIP  string // Address the listeners bind to
	GrpcPort int    // Port for the GRPC server
	HTTPPort int    // Port for the REST and websocket server

	MaxSessions    int           // Upper bound on concurrent sessions
	TickInterval   time.Duration // Game loop tick (in milliseconds in the environment)
	IdleTimeout    time.Duration // Unwatched sessions without input are closed (in seconds in the environment)
	MazeAlgorithm  string        // "wilson" or "backtracker"
	Braiding       float64       // Share of dead ends opened into loops, 0..1
	BinaryMessages bool          // Publish msgpack snapshots instead of JSON

	Maze geometry.Settings
}

// Envs holds the application's configuration loaded from environment variables.
var Envs Config

// Init loads Envs. Ports are required; everything else falls back to a default.
func Init() {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}
	Envs = initConfig()
}

func initConfig() Config {
	d := geometry.DefaultSettings()
	return Config{
		ProxyIP:  getEnvOr("PROXY_IP", "0.0.0.0"),
		GrpcPort: mustGetEnvAsInt("GRPC_PORT"),
		HTTPPort: mustGetEnvAsInt("HTTP_PORT"),

		MaxSessions:    getEnvAsIntOr("MAX_SESSIONS", 64),
		TickInterval:   time.Duration(getEnvAsIntOr("TICK_INTERVAL_MS", 100)) * time.Millisecond,
		IdleTimeout:    time.Duration(getEnvAsIntOr("SESSION_IDLE_TIMEOUT_S", 300)) * time.Second,
		MazeAlgorithm:  getEnvOr("MAZE_ALGORITHM", "wilson"),
		Braiding:       getEnvAsFloatOr("MAZE_BRAIDING", 0.1),
		BinaryMessages: getEnvOr("MESSAGE_FORMAT", "json") == "msgpack",

		Maze: geometry.Settings{
			GridSize:      getEnvAsIntOr("MAZE_GRID_SIZE", d.GridSize),
			CellSize:      getEnvAsFloatOr("MAZE_CELL_SIZE", d.CellSize),
			WallHeight:    getEnvAsFloatOr("MAZE_WALL_HEIGHT", d.WallHeight),
			PlayerHeight:  getEnvAsFloatOr("MAZE_PLAYER_HEIGHT", d.PlayerHeight),
			LaserSpeed:    getEnvAsFloatOr("LASER_SPEED", d.LaserSpeed),
			LaserLifetime: time.Duration(getEnvAsIntOr("LASER_LIFETIME_MS", int(d.LaserLifetime/time.Millisecond))) * time.Millisecond,
		},
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("%s[APP]%s %s[FATAL]%s Environment variable %s is not set", ColorGreen, ColorReset, ColorRed, ColorReset, key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

func getEnvOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsIntOr(key string, fallback int) int {
	valueStr, ok := os.LookupEnv(key)
	if !ok || valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

func getEnvAsFloatOr(key string, fallback float64) float64 {
	valueStr, ok := os.LookupEnv(key)
	if !ok || valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a number: %v", key, err)
	}
	return value
}

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	logger "github.com/beka-birhanu/vinom-common/log"
	"github.com/beka-birhanu/vinom-maze3d/api"
	"github.com/beka-birhanu/vinom-maze3d/config"
	"github.com/beka-birhanu/vinom-maze3d/gameencoder"
	"github.com/beka-birhanu/vinom-maze3d/maze"
	"github.com/beka-birhanu/vinom-maze3d/service"
	"github.com/beka-birhanu/vinom-maze3d/service/i"
	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
)

// Global variables for dependencies
var (
	grpcConnListener   net.Listener
	grpcServer         *grpc.Server
	httpServer         *http.Server
	gameSessionManager i.GameSessionManager
	gameEncoder        service.Encoder
	appLogger          general_i.Logger
)

func newLogger(prefix, color string) general_i.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initGameSessionManager() {
	gameEncoder = &gameencoder.JSON{}
	if config.Envs.BinaryMessages {
		gameEncoder = &gameencoder.Msgpack{}
	}

	settings := config.Envs.Maze
	newRand := func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	if _, err := maze.NewGenerator(config.Envs.MazeAlgorithm, settings.GridSize, config.Envs.Braiding, newRand()); err != nil {
		appLogger.Error(fmt.Sprintf("Configuring maze generator: %v", err))
		os.Exit(1)
	}
	manager, err := service.NewGameSessionManager(
		&service.Config{
			Settings: settings,
			MazeFactory: func() maze.Generator {
				gen, _ := maze.NewGenerator(config.Envs.MazeAlgorithm, settings.GridSize, config.Envs.Braiding, newRand())
				return gen
			},
			RandFactory: func() maze.Rand {
				return newRand()
			},
			GameEncoder:  gameEncoder,
			Logger:       newLogger("GAME-MANAGER", config.ColorCyan),
			TickInterval: config.Envs.TickInterval,
			IdleTimeout:  config.Envs.IdleTimeout,
			MaxSessions:  config.Envs.MaxSessions,
		},
	)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating game session manager: %v", err))
		os.Exit(1)
	}
	gameSessionManager = manager
	appLogger.Info("Game Session Manager initialized")
}

func initSessionController() {
	grpcServer = grpc.NewServer()
	err := api.RegisterMazeSession(grpcServer, gameSessionManager, newLogger("GRPC", config.ColorBlue))
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating and Registering maze session controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("gRPC controller initialized")
}

func initHTTPController() {
	messageType := websocket.TextMessage
	if config.Envs.BinaryMessages {
		messageType = websocket.BinaryMessage
	}
	handler, err := api.NewHTTPServer(&api.HTTPConfig{
		GameSessionManager: gameSessionManager,
		Logger:             newLogger("HTTP", config.ColorBlue),
		ActionDecoder:      gameEncoder,
		MessageType:        messageType,
		CheckOrigin:        func(*http.Request) bool { return true },
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating HTTP controller: %v", err))
		os.Exit(1)
	}
	httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%v", config.Envs.ProxyIP, config.Envs.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	appLogger.Info("HTTP controller initialized")
}

func main() {
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	config.Init()
	initGameSessionManager()
	initSessionController()
	initHTTPController()

	var err error
	addr := fmt.Sprintf("%s:%v", config.Envs.ProxyIP, config.Envs.GrpcPort)
	grpcConnListener, err = net.Listen("tcp", addr)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Listening tcp: %v", err))
		os.Exit(1)
	}

	go func() {
		appLogger.Info(fmt.Sprintf("Serving gRPC at: %s", addr))
		if err := grpcServer.Serve(grpcConnListener); err != nil {
			appLogger.Error(fmt.Sprintf("Serving gRPC: %v", err))
		}
	}()
	go func() {
		appLogger.Info(fmt.Sprintf("Serving HTTP at: %s", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Serving HTTP: %v", err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	appLogger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	grpcServer.GracefulStop()
	gameSessionManager.StopAll()
}

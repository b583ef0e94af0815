package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/TurbsaDurps/MultiplayerMazeGame/api"
	"github.com/TurbsaDurps/MultiplayerMazeGame/config"
	"github.com/TurbsaDurps/MultiplayerMazeGame/service"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/sirupsen/logrus"
)

// Global variables for dependencies
var (
	hub       *api.Hub
	directory *service.SessionDirectory
	ticker    *service.Ticker
	wsServer  *api.Server
	appLogger logrus.FieldLogger
)

func initHub() {
	hub = api.NewHub(appLogger.WithField("component", "hub"))
	appLogger.Info("broadcast hub initialized")
}

func initSessionDirectory() {
	var err error
	directory, err = service.NewSessionDirectory(&service.DirectoryConfig{
		Publisher: hub,
		Settings:  config.Envs,
		Logger:    appLogger.WithField("component", "directory"),
	})
	if err != nil {
		appLogger.WithError(err).Error("creating session directory")
		os.Exit(1)
	}
	appLogger.Info("session directory initialized")
}

func initTicker() {
	ticker = service.NewTicker(directory, hub, config.Envs.TickRate, appLogger.WithField("component", "ticker"))
	appLogger.Info("tick loop initialized")
}

func initServer() {
	var err error
	wsServer, err = api.NewServer(&api.ServerConfig{
		Directory: directory,
		Auth:      api.UUIDAuthenticator{},
		Abilities: service.StaticAbilityProvider{},
		Hub:       hub,
		Logger:    appLogger.WithField("component", "ws"),
	})
	if err != nil {
		appLogger.WithError(err).Error("creating websocket server")
		os.Exit(1)
	}
	appLogger.Info("websocket server initialized")
}

func main() {
	appLogger = logrus.New().WithField("app", "maze-race")

	initHub()
	initSessionDirectory()
	initTicker()
	initServer()

	go ticker.Run()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/ws", wsServer.HandleWS)

	// Serve static files
	fileServer := http.FileServer(http.Dir("./static"))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		ticker.Stop()
		directory.StopAll()
		os.Exit(0)
	}()

	addr := ":" + config.Envs.Port
	appLogger.WithField("addr", addr).Info("serving")
	if err := http.ListenAndServe(addr, r); err != nil {
		appLogger.WithError(err).Error("serving http")
		os.Exit(1)
	}
}

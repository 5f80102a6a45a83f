package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solarmon/internal/handlers"
	"solarmon/internal/logger"
	"solarmon/internal/repository"
	"solarmon/internal/repository/db"
	"solarmon/internal/server"
	"solarmon/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env first so viper's env overrides see it
	_ = godotenv.Load()

	cfgErr := loadConfig()
	log := logger.Get(viper.GetString("log.level"))
	if cfgErr != nil {
		// defaults + env are enough to run
		log.Infow("no config file, using defaults", "err", cfgErr)
	}

	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos)
	apiHandler := handlers.NewHandler(services, log, viper.GetString("firmware.dir"))

	srv := &server.Server{}
	go func() {
		port := viper.GetString("port")
		log.Infow("starting server", "port", port)
		if err := srv.Run(port, apiHandler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()

	waitForShutdown(srv, log)
}

// loadConfig reads configs/config.yml when present and lets SOLARMON_*
// environment variables override any key.
func loadConfig() error {
	viper.SetDefault("port", "5000")
	viper.SetDefault("db.path", "solarmon.db")
	viper.SetDefault("firmware.dir", "firmware")
	viper.SetDefault("log.level", "info")

	viper.SetEnvPrefix("solarmon")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

func openDB(log *logger.Logger) (*sql.DB, error) {
	path := viper.GetString("db.path")
	log.Infow("opening sqlite", "path", path)
	return db.Open(path)
}

// waitForShutdown blocks on SIGINT/SIGTERM and drains the server.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}

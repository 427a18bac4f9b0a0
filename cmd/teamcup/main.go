package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/justinjudd/teamcup/internal/config"
	"github.com/justinjudd/teamcup/internal/server"
	"github.com/justinjudd/teamcup/models"
	"github.com/justinjudd/teamcup/models/storm"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Unable to load configuration")
	}
	level, _ := cfg.Level()
	log.SetLevel(level)

	store, err := openStore(cfg.DBPath, log)
	if err != nil {
		log.WithError(err).WithField("db", cfg.DBPath).Fatal("Unable to open database")
	}
	defer store.Close()

	handler := server.New(store, server.Options{
		Events:  cfg.Events,
		Title:   cfg.Title,
		MCPPath: cfg.MCPPath,
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Shutdown did not complete")
		}
	}()

	log.WithFields(logrus.Fields{"addr": cfg.Addr, "events": cfg.Events, "mcp": cfg.MCPPath}).Info("Serving tournament")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Server stopped")
		return
	}
	log.Info("Server stopped")
}

// openStore opens the database, moving it aside and starting empty if the saved tournament can't be read
func openStore(path string, log *logrus.Logger) (models.StorageEngine, error) {
	store, err := storm.NewStorageEngine(path)
	if err != nil {
		return nil, err
	}
	err = readable(store)
	if err == nil {
		return store, nil
	}
	log.WithError(err).WithField("db", path).Error("Saved tournament is unreadable, starting empty")

	store.Close()
	aside := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
	if err := os.Rename(path, aside); err != nil {
		return nil, err
	}
	log.WithField("moved", aside).Warn("Unreadable database kept for inspection")
	return storm.NewStorageEngine(path)
}

func readable(store models.StorageEngine) error {
	if _, err := store.GetTeams(); err != nil {
		return err
	}
	_, err := store.GetResults()
	return err
}

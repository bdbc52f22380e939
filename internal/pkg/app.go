package pkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"kidsevents/internal/app/config"
	"kidsevents/internal/app/jobs"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	Config    *config.Config
	Router    *gin.Engine
	Scheduler *jobs.Scheduler

	closers []func() error
}

func NewApp(c *config.Config, r *gin.Engine, s *jobs.Scheduler) *Application {
	return &Application{
		Config:    c,
		Router:    r,
		Scheduler: s,
	}
}

// OnShutdown регистрирует освобождение ресурса после остановки сервера
func (a *Application) OnShutdown(fn func() error) {
	a.closers = append(a.closers, fn)
}

// RunApp запускает сервер и ждёт SIGINT/SIGTERM
func (a *Application) RunApp() error {
	logrus.Info("Server start up")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.Scheduler != nil {
		if err := a.Scheduler.Start(); err != nil {
			return err
		}
	}

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	srv := &http.Server{
		Addr:              serverAddress,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logrus.Infof("Starting server on %s", serverAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logrus.Info("Shutdown signal received")
	case err := <-serveErr:
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server shutdown")
	}
	if a.Scheduler != nil {
		if err := a.Scheduler.Stop(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("maintenance did not stop in time")
		}
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			logrus.WithError(err).Warn("close resource")
		}
	}

	logrus.Info("Server down")
	return runErr
}

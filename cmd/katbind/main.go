package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

func main() {
	var opts options
	_, err := flags.Parse(&opts)
	if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	c, err := loadConfiguration(&opts)
	if err != nil {
		logrus.Fatal(err)
	}
	logger := newLogger(c)
	logger.WithFields(logrus.Fields{
		"env":     opts.Environment,
		"dialect": c.Database.Dialect,
	}).Info("starting katbin")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, c, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to open the database")
	}
	defer b.Close()

	handler, err := newHandler(c, opts.Environment, b, logger)
	if err != nil {
		logger.Fatal(err)
	}

	server := &http.Server{
		Addr:              c.Web.Bind,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.WithField("bind", c.Web.Bind).Info("listening")
	if c.Web.SSL != nil {
		err = server.ListenAndServeTLS(c.Web.SSL.Certificate, c.Web.SSL.Key)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("server stopped")
	}
}

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shravanasati/courier/internal/console"
	"github.com/shravanasati/courier/internal/response"
	"github.com/shravanasati/courier/internal/router"
	"github.com/shravanasati/courier/internal/server"
)

func main() {
	var (
		addr    = flag.String("addr", "127.0.0.1:42069", "address to listen on")
		verbose = flag.Bool("v", false, "debug logging")
		timeout = flag.Duration("timeout", 30*time.Second, "read and write timeout per connection")
	)
	flag.Parse()

	logger, err := console.NewLogger(*verbose)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	printer := console.NewPrinter(os.Stdout)
	s, err := server.Serve(server.ServerOpts{
		Address:      *addr,
		ReadTimeout:  *timeout,
		WriteTimeout: *timeout,
		Logger:       logger,
		Handler:      router.NewFixtureRouter().Handler(),
		OnExchange: func(method, target string, code response.StatusCode, took time.Duration) {
			printer.Access(method, target, code, took)
		},
	})
	if err != nil {
		logger.Fatal("Error starting server", zap.Error(err))
	}
	defer s.Close()
	logger.Info("Server started", zap.Stringer("addr", s.Addr()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Server gracefully stopped")
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"activos/server"
)

func main() {
	srv := server.SrvInit()
	go srv.Start()
	srv.Logger.GetLogger().Info("server initialized...")

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done

	srv.Stop()
}

package utils

import (
	"os"
	"os/signal"
	"syscall"
)

// HandleTerminationProcess вызывает cleanup один раз по SIGINT или SIGTERM.
func HandleTerminationProcess(cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		signal.Stop(c)
		cleanup()
	}()
}

package comms

import (
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
)

// CloseOnSignal closes cl the first time one of sig is delivered to the
// process. The returned function stops watching without closing.
func CloseOnSignal(cl io.Closer, sig ...os.Signal) (stop func()) {
	ch := make(chan os.Signal, 1)
	quit := make(chan struct{})
	signal.Notify(ch, sig...)
	go func() {
		defer signal.Stop(ch)
		select {
		case s := <-ch:
			slog.Info("received signal, closing", "signal", s.String())
			if err := cl.Close(); err != nil {
				slog.Warn("error closing on signal", "error", err)
			}
		case <-quit:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
	}
}

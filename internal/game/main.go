package game

import (
	"log/slog"
	"runtime"

	"xmastree/internal/config"
)

// RunDesktop opens the tree window and blocks until it is closed.
func RunDesktop(cfg config.Config, log *slog.Logger) error {
	// GL calls must stay on the thread that owns the context.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	scene, err := NewScene(cfg, log)
	if err != nil {
		return err
	}
	defer scene.Close()

	scene.Run()
	return nil
}

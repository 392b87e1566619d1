package hud

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/warpdl/warphud/pkg/logger"
)

var (
	defaultOnce    sync.Once
	defaultManager *Manager
)

// Default returns the process-wide Manager, dialing the renderer through
// hudcli.
func Default() *Manager {
	defaultOnce.Do(func() {
		l := logger.NewStandardLogger(log.New(os.Stderr, "warphud: ", log.LstdFlags))
		defaultManager = NewManager(DialConnector(), WithLogger(l))
	})
	return defaultManager
}

func Add(e Entry)                    { Default().Add(e) }
func Remove(e Entry)                 { Default().Remove(e) }
func RemoveAll()                     { Default().RemoveAll() }
func ToggleVisibility()              { Default().ToggleVisibility() }
func RequestImmediateUpdate(e Entry) { Default().RequestImmediateUpdate(e) }
func IsConnected() bool              { return Default().IsConnected() }

// Shutdown is Default().Shutdown.
func Shutdown(ctx context.Context) error { return Default().Shutdown(ctx) }

package logging

import (
	"sync"

	"github.com/reliefline/sos-inbox/internal/colors"
)

var (
	globalMu     sync.RWMutex
	globalLogger Logger
)

// InitGlobal opens the file logger described by the loaded configuration and
// mirrors console messages into it. Calling it again replaces the previous logger.
func InitGlobal() error {
	l, err := Open(FromGlobalConfig())
	if err != nil {
		return err
	}
	globalMu.Lock()
	prev := globalLogger
	globalLogger = l
	globalMu.Unlock()
	if prev != nil {
		_ = prev.Shutdown()
	}
	if _, ok := l.(noopLogger); !ok {
		colors.SetLogger(l)
		colors.Debug("logging to file:", CurrentLogFile())
	}
	return nil
}

// GetGlobal returns the global logger, or a discarding logger before InitGlobal.
func GetGlobal() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		return Discard()
	}
	return globalLogger
}

// ShutdownGlobal closes the global logger and detaches it from console output.
func ShutdownGlobal() error {
	globalMu.Lock()
	l := globalLogger
	globalLogger = nil
	globalMu.Unlock()
	colors.SetLogger(nil)
	if l == nil {
		return nil
	}
	return l.Shutdown()
}

// CurrentLogFile returns the active log file path, or "" when file logging is off.
func CurrentLogFile() string {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if l, ok := globalLogger.(*charmLogger); ok {
		return l.path
	}
	return ""
}

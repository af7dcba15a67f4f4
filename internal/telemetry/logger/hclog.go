package logger

import (
	"io"
	stdlog "log"

	"github.com/hashicorp/go-hclog"
)

// AsHCLog adapts a Logger to the hashicorp/go-hclog.Logger interface
// expected by third-party components, such as Badger, that bring
// their own logging abstraction.
func AsHCLog(l Logger) hclog.Logger {
	return &hclogBridge{logger: l}
}

type hclogBridge struct {
	logger Logger
}

func (l *hclogBridge) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.Trace, hclog.Debug:
		l.logger.Debug(msg, args...)
	case hclog.Warn:
		l.logger.Warn(msg, args...)
	case hclog.Error:
		l.logger.Error(msg, args...)
	default:
		l.logger.Info(msg, args...)
	}
}

func (l *hclogBridge) Trace(msg string, args ...interface{}) { l.logger.Debug(msg, args...) }
func (l *hclogBridge) Debug(msg string, args ...interface{}) { l.logger.Debug(msg, args...) }
func (l *hclogBridge) Info(msg string, args ...interface{})  { l.logger.Info(msg, args...) }
func (l *hclogBridge) Warn(msg string, args ...interface{})  { l.logger.Warn(msg, args...) }
func (l *hclogBridge) Error(msg string, args ...interface{}) { l.logger.Error(msg, args...) }

func (l *hclogBridge) IsTrace() bool { return false }
func (l *hclogBridge) IsDebug() bool { return false }
func (l *hclogBridge) IsInfo() bool  { return true }
func (l *hclogBridge) IsWarn() bool  { return true }
func (l *hclogBridge) IsError() bool { return true }

func (l *hclogBridge) ImpliedArgs() []interface{} { return nil }
func (l *hclogBridge) With(args ...interface{}) hclog.Logger {
	return &hclogBridge{logger: l.logger.With(args...)}
}
func (l *hclogBridge) Name() string { return "" }
func (l *hclogBridge) Named(name string) hclog.Logger {
	return &hclogBridge{logger: l.logger.With("component", name)}
}
func (l *hclogBridge) ResetNamed(name string) hclog.Logger { return l.Named(name) }
func (l *hclogBridge) SetLevel(level hclog.Level)           {}
func (l *hclogBridge) GetLevel() hclog.Level                { return hclog.Info }
func (l *hclogBridge) StandardLogger(opts *hclog.StandardLoggerOptions) *stdlog.Logger {
	return nil
}
func (l *hclogBridge) StandardWriter(opts *hclog.StandardLoggerOptions) io.Writer {
	return nil
}

// Package logging is the hierarchical logger facility used throughout
// this module: error, warning, and fullDebug levels.
package logging

import "github.com/ngaut/log"

// Logger is the narrow interface every component in this module logs
// through, rather than calling github.com/ngaut/log directly. Tests
// can substitute NoOp without a global logger side effect.
type Logger interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Warning(args ...interface{})
	Warningf(format string, args ...interface{})
	FullDebug(args ...interface{})
	FullDebugf(format string, args ...interface{})
}

// Default wraps the process-wide github.com/ngaut/log logger. fullDebug
// maps onto log.Debug, the level used for best-effort cleanup failures
// and other low-priority detail.
type Default struct{}

func (Default) Error(args ...interface{})                 { log.Error(args...) }
func (Default) Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }
func (Default) Warning(args ...interface{})                 { log.Warn(args...) }
func (Default) Warningf(format string, args ...interface{}) { log.Warnf(format, args...) }
func (Default) FullDebug(args ...interface{})                 { log.Debug(args...) }
func (Default) FullDebugf(format string, args ...interface{}) { log.Debugf(format, args...) }

// NoOp discards everything; used by tests that don't want log.go's
// default stderr writer firing on every case.
type NoOp struct{}

func (NoOp) Error(args ...interface{})                  {}
func (NoOp) Errorf(format string, args ...interface{})  {}
func (NoOp) Warning(args ...interface{})                {}
func (NoOp) Warningf(format string, args ...interface{}) {}
func (NoOp) FullDebug(args ...interface{})                {}
func (NoOp) FullDebugf(format string, args ...interface{}) {}

package logger

import "context"

//go:generate mockery --name ILogger --output ./mocks
type ILogger interface {
	Debug(v ...interface{})
	Info(v ...interface{})
	Warning(v ...interface{})
	Error(v ...interface{})
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warningf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// Provider resolves the logger bound to a context.
type Provider func(ctx context.Context) ILogger

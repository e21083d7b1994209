package expirestore

import "go.uber.org/zap"

// Logger is the subset of *zap.SugaredLogger used across the module.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

var _ Logger = (*zap.SugaredLogger)(nil)

// NewLogger builds a zap sugared logger. Development mode logs at debug level
// in console format, production logs JSON at info level.
func NewLogger(dev bool) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func nopLogger() Logger {
	return zap.NewNop().Sugar()
}

package log

import (
	kitlog "github.com/go-kit/kit/log"
	"go.uber.org/zap/zapcore"
)

// KitWrapper is a type that implements go-kit/log.Logger interface with the
// global zap logger.
type KitWrapper zapcore.Level

var _ kitlog.Logger = KitWrapper(0)

// Log implements go-kit/log.Logger interface.
func (w KitWrapper) Log(keyvals ...interface{}) error {
	const msg = "log.KitWrapper"
	switch zapcore.Level(w) {
	default:
		// for unknown values, fallback to info level.
		fallthrough
	case zapcore.InfoLevel:
		Infow(msg, keyvals...)
	case zapcore.DebugLevel:
		Debugw(msg, keyvals...)
	case zapcore.WarnLevel:
		Warnw(msg, keyvals...)
	case zapcore.ErrorLevel:
		Errorw(msg, keyvals...)
	case ZapNopLevel:
		// do nothing
	}
	return nil
}

// KitLogger returns a go-kit compatible logger.
func KitLogger(level Level) KitWrapper {
	return KitWrapper(level.ToZapLevel())
}

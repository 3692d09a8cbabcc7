package buildsys

import "github.com/qiniu/x/log"

// Logger receives the progress of build steps. *log.Logger from
// github.com/qiniu/x/log satisfies it.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// DefaultLogger is the process-wide qiniu logger.
func DefaultLogger() Logger {
	return log.Std
}

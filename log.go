package towngen

import (
	"github.com/sirupsen/logrus"
)

// log is the package logger. Generation is quiet by default: failed attempts
// surface at Warn, skipped non-fatal geometry (gate road stubs, countryside
// roads) at Debug.
var log logrus.FieldLogger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SetLogger replaces the package logger, for hosts that want generation
// events in their own sink. Passing nil restores the default.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		log = newDefaultLogger()
		return
	}
	log = l
}

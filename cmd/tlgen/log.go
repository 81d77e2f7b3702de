package main

import (
	"io"

	"github.com/sirupsen/logrus"
)

func newLogger(c *config, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	if c.Verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	switch c.LogFormat {
	case logFormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}
	return l
}

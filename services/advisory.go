package services

import (
	log "github.com/sirupsen/logrus"
)

// RunAdvisory executes a secondary synchronization step whose failure
// must not fail the primary operation. The error is captured into the
// log for operator diagnosis and swallowed.
func RunAdvisory(operation string, fields log.Fields, fn func() error) {
	if err := fn(); err != nil {
		log.WithFields(fields).WithError(err).Warnf("advisory sync %s failed", operation)
	}
}

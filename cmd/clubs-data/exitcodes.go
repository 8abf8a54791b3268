package main

import (
	"errors"

	"github.com/iota-uz/clubs/modules/clubs/services"
	"github.com/iota-uz/clubs/pkg/serrors"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitDB         = 4
	exitUpstream   = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// importExitCode classifies an ImportService failure.
func importExitCode(err error) int {
	code, ok := serrors.CodeOf(err)
	if !ok {
		return exitDB
	}
	switch code {
	case services.CodeNoClub, services.CodeNoFile, services.CodeClubNotFound:
		return exitUsage
	case services.CodeExtraction:
		return exitUpstream
	default:
		return exitValidation
	}
}

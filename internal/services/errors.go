package services

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external service error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap tags err with marker (ErrTransient when nil) and prefixes it with the
// stage/operation/message breadcrumb, so callers can both print a readable
// message and test the marker with errors.Is.
func Wrap(marker error, stage, operation, message string, err error) error {
	marker = cmp.Or(marker, ErrTransient)
	detail := buildDetail(stage, operation, message)
	if err == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, err)
}

// Class groups errors by how the CLI should report them.
type Class string

const (
	ClassUser      Class = "user"
	ClassConfig    Class = "config"
	ClassRemote    Class = "remote"
	ClassTransient Class = "transient"
)

// Classify maps a wrapped error to the reporting class used for the final
// command message. Unknown errors are treated as transient.
func Classify(err error) Class {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return ClassUser
	case errors.Is(err, ErrConfiguration):
		return ClassConfig
	case errors.Is(err, ErrExternalTool):
		return ClassRemote
	default:
		return ClassTransient
	}
}

// Hint returns a short next-step suggestion for the class.
func (c Class) Hint() string {
	switch c {
	case ClassUser:
		return "check the input file and playlist name"
	case ClassConfig:
		return "run 'tunebridge config validate' and review the config file"
	case ClassRemote:
		return "the remote catalog rejected the request; run 'tunebridge auth status'"
	default:
		return "retry the command; transient failures usually clear up"
	}
}

func buildDetail(stage, operation, message string) string {
	var parts []string
	for _, part := range [...]string{stage, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

package catalog

import (
	"errors"
	"fmt"

	"coursedesc/internal/seed"
)

// Reason tags why a degree, year or course could not be processed.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonValidation          Reason = "validation"
	ReasonMissingLink         Reason = "missing-link"
	ReasonMissingElement      Reason = "missing-element"
	ReasonMissingLanguageLink Reason = "missing-language-link"
	ReasonNetwork             Reason = "network"
	ReasonHttpStatus          Reason = "http-status"
	ReasonConfiguration       Reason = "configuration"
)

// ValidationError is returned for a seed record with an empty field.
type ValidationError = seed.ValidationError

// NetworkError is a transport level failure, the request never got a response.
type NetworkError struct {
	Url string
	Err error
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.Url, e.Err.Error())
}

func (e NetworkError) Unwrap() error {
	return e.Err
}

// HttpStatusError is a response with a non-success status code.
type HttpStatusError struct {
	Url    string
	Status int
}

func (e HttpStatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Url, e.Status)
}

// ParseError is returned when a page lacks the markup it is expected to have.
type ParseError struct {
	Url    string
	Reason Reason
	// What describes the element or the value that could not be found.
	What string
	Err  error
}

func (e ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Reason, e.What)
	if e.Url != "" {
		msg = fmt.Sprintf("parse %s: %s", e.Url, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned when the catalog tables are unusable,
// for example a marker table without a wildcard entry.
type ConfigurationError struct {
	Message string
}

func (e ConfigurationError) Error() string {
	return "invalid configuration: " + e.Message
}

// ReasonOf classifies err, it returns ReasonNone for a nil error and
// for errors that were not produced by this package.
func ReasonOf(err error) Reason {
	if err == nil {
		return ReasonNone
	}

	var validation ValidationError
	if errors.As(err, &validation) {
		return ReasonValidation
	}
	var config ConfigurationError
	if errors.As(err, &config) {
		return ReasonConfiguration
	}
	var parse ParseError
	if errors.As(err, &parse) {
		return parse.Reason
	}
	var status HttpStatusError
	if errors.As(err, &status) {
		return ReasonHttpStatus
	}
	var network NetworkError
	if errors.As(err, &network) {
		return ReasonNetwork
	}
	return ReasonNone
}

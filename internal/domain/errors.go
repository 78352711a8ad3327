package domain

import (
	"errors"
	"fmt"
)

// Error types for consistent error handling across the session.

// ErrProcessing is returned when a command is submitted while another one is
// still outstanding. The caller should surface it as "processing".
var ErrProcessing = errors.New("a command is already being processed")

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrConnectivity indicates that command dispatch failed in transit.
// Every transport or protocol failure of the command service collapses into it.
type ErrConnectivity struct {
	Err error
}

func (e *ErrConnectivity) Error() string {
	return fmt.Sprintf("connectivity error: %v", e.Err)
}

func (e *ErrConnectivity) Unwrap() error {
	return e.Err
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrAggregationFetch indicates that one of the fraud aggregate fetches failed.
type ErrAggregationFetch struct {
	Source string // merchants | stats
	Err    error
}

func (e *ErrAggregationFetch) Error() string {
	return fmt.Sprintf("fraud aggregate fetch [%s]: %v", e.Source, e.Err)
}

func (e *ErrAggregationFetch) Unwrap() error {
	return e.Err
}

// ErrReportSubmission indicates that a merchant report could not be submitted.
type ErrReportSubmission struct {
	Err error
}

func (e *ErrReportSubmission) Error() string {
	return fmt.Sprintf("report submission failed: %v", e.Err)
}

func (e *ErrReportSubmission) Unwrap() error {
	return e.Err
}

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrNotListening is returned when a capture is released that was never started.
var ErrNotListening = errors.New("voice capture is not listening")

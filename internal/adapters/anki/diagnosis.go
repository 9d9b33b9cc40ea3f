package anki

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// ErrorKind classifies why a call to AnkiConnect failed
type ErrorKind string

const (
	KindNotRunning ErrorKind = "not_running"
	KindTimeout    ErrorKind = "timeout"
	KindConfig     ErrorKind = "config"
	KindAPI        ErrorKind = "api"
	KindGeneric    ErrorKind = "generic"
)

// Diagnosis explains a failed Anki call to the user
type Diagnosis struct {
	Kind           ErrorKind `json:"error_type"`
	Message        string    `json:"message"`
	PossibleCauses []string  `json:"possible_causes"`
	Suggestions    []string  `json:"suggestions"`
}

func (d *Diagnosis) Error() string {
	return string(d.Kind) + ": " + d.Message
}

// MissingCredentials is returned when ANKI_EMAIL or ANKI_PASSWORD is unset
func MissingCredentials() *Diagnosis {
	return &Diagnosis{
		Kind:           KindConfig,
		Message:        "Missing credentials",
		PossibleCauses: []string{"Credentials not set in .env.local"},
		Suggestions:    []string{"Add ANKI_EMAIL and ANKI_PASSWORD to .env.local"},
	}
}

// Diagnose maps an error returned by the client to a Diagnosis
func Diagnose(err error) *Diagnosis {
	if err == nil {
		return nil
	}

	var d *Diagnosis
	if errors.As(err, &d) {
		return d
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &Diagnosis{
			Kind:           KindAPI,
			Message:        apiErr.Message,
			PossibleCauses: []string{"AnkiConnect rejected the request"},
			Suggestions:    []string{"Check the deck name and that the Anki reviewer is open"},
		}
	}

	if isTimeout(err) {
		return &Diagnosis{
			Kind:           KindTimeout,
			Message:        err.Error(),
			PossibleCauses: []string{"Connection timeout"},
			Suggestions:    []string{"Check if Anki is responding"},
		}
	}

	if isConnectionRefused(err) {
		return &Diagnosis{
			Kind:    KindNotRunning,
			Message: err.Error(),
			PossibleCauses: []string{
				"Anki is not running",
				"AnkiConnect add-on is not installed",
				"AnkiConnect is running on a different port",
				"Firewall is blocking the connection",
			},
			Suggestions: []string{
				"Start Anki application",
				"Install AnkiConnect add-on (code: 2055492159)",
				"Check AnkiConnect port in add-on configuration",
				"Check firewall settings",
			},
		}
	}

	return &Diagnosis{
		Kind:           KindGeneric,
		Message:        err.Error(),
		PossibleCauses: []string{"General connection error"},
		Suggestions:    []string{"Check network connectivity"},
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

package models

import (
	"errors"
	"fmt"
)

// ErrorKind tags the failure classes reported by the scraping pipeline
type ErrorKind int

const (
	// KindFetch is a network failure or a non-2xx response
	KindFetch ErrorKind = iota + 1
	// KindParse means the page loaded but no leaderboard rows were found
	KindParse
	// KindNameFormat means the URL does not follow the c/<name>/leaderboard convention
	KindNameFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindParse:
		return "parse"
	case KindNameFormat:
		return "name format"
	default:
		return "unknown"
	}
}

// Error is the tagged error returned by the fetcher, parser and name resolver
type Error struct {
	Kind       ErrorKind
	URL        string
	StatusCode int // HTTP status, 0 when no response was received
	Message    string
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Kind)
	if e.URL != "" {
		msg += fmt.Sprintf(" for %s", e.URL)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// NewFetchError creates a KindFetch error
func NewFetchError(url string, statusCode int, err error) *Error {
	return &Error{Kind: KindFetch, URL: url, StatusCode: statusCode, Err: err}
}

// NewParseError creates a KindParse error
func NewParseError(url, message string) *Error {
	return &Error{Kind: KindParse, URL: url, Message: message}
}

// NewNameFormatError creates a KindNameFormat error
func NewNameFormatError(url string) *Error {
	return &Error{Kind: KindNameFormat, URL: url, Message: "expected a c/<name>/leaderboard path"}
}

// KindOf returns the kind of the first tagged error in err's chain, or 0
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries a tagged error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

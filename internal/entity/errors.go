package entity

import "errors"

var (
	ErrConfiguration       = errors.New("server configuration is incomplete")
	ErrEmptySubmission     = errors.New("no data received")
	ErrMalformedSubmission = errors.New("malformed submission")
	ErrDelivery            = errors.New("email delivery failed")
)

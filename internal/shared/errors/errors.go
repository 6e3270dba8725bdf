package errors

import "errors"

var (
	ErrMissingBotToken      = errors.New("SLACK_BOT_TOKEN environment variable is required")
	ErrMissingUserToken     = errors.New("SLACK_USER_TOKEN environment variable is required")
	ErrMissingReportChannel = errors.New("CHANNEL environment variable is required")
	ErrMissingSigningSecret = errors.New("SLACK_SIGNING_SECRET environment variable is required")
	ErrPaginationLoop       = errors.New("pagination cursor did not advance")
	ErrMalformedRecord      = errors.New("malformed record")
	ErrChannelNotFound      = errors.New("channel not found")
	ErrInvalidSignature     = errors.New("invalid request signature")
)

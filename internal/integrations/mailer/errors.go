package mailer

import "errors"

var (
	ErrInvalidRecipient = errors.New("mailer: invalid recipient")
	ErrSend             = errors.New("mailer: failed to send message")
)

// Package send implements the secure signing coordinator: it turns a
// transfer request into a signed wallet-contract message without ever
// persisting plaintext secret material.
package send

import "context"

// SecretService is the password challenge capability provided by the
// privileged extension context. Any transport (in-process call, message
// channel, RPC) satisfies the interface.
type SecretService interface {
	// RequestPassword asks the privileged context for the wallet
	// password. A refused or cancelled challenge returns an error
	// carrying the PASSWORD_DENIED code.
	RequestPassword(ctx context.Context) (string, error)
}

// LogWriter provides logging capabilities.
type LogWriter interface {
	Debug(format string, args ...interface{})
	Error(format string, args ...interface{})
}

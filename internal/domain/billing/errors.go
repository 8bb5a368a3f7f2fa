package billing

import (
	"errors"
	"fmt"
)

var (
	ErrTransactionNotFound = errors.New("billing transaction not found")
	ErrTerminalStatus      = errors.New("transaction is in a terminal status")
	ErrInvalidStatus       = errors.New("invalid transaction status")
	ErrVerificationFailed  = errors.New("payment verification failed")
)

func ErrTerminalTransition(from, to string) error {
	return fmt.Errorf("%w: cannot move %s to %s", ErrTerminalStatus, from, to)
}

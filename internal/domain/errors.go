package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no saved state exists for a session id.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEmptyBank is returned when a bank would be built without questions.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrInvalidQuestion indicates a question with blank text.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrIndexOutOfRange signals a cursor or caller reading outside the bank.
	ErrIndexOutOfRange = errors.New("question index out of range")
	// ErrUnknownEvent is returned for input that does not map to a quiz event.
	ErrUnknownEvent = errors.New("unknown quiz event")
)

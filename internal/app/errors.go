package service

import "errors"

var (
	// ErrQueryContacts is the single failure callers see from ListContacts.
	ErrQueryContacts = errors.New("query contacts")
	// ErrNotReady means the store did not answer a ping.
	ErrNotReady = errors.New("contacts store not ready")
	// ErrServiceClosed is returned once Close has run.
	ErrServiceClosed = errors.New("service closed")
)

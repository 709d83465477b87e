package commands

import (
	"errors"

	"shipment/internal/core/domain/model/kernel"
	"shipment/internal/core/domain/model/quote"
	"shipment/internal/pkg/guard"
)

var ErrOpenSessionCommandIsNotConstructed = errors.New(
	"OpenSessionCommand must be created via NewOpenSessionCommand constructor",
)

// OpenSessionCommand represents a request to open a finalization session
// for a confirmed quote.
//
// Example:
//
//	sessionID := kernel.NewUUID()
//	cmd, err := NewOpenSessionCommand(sessionID, confirmedQuote)
//	if err != nil {
//	    return fmt.Errorf("invalid session data: %w", err)
//	}
//
//	handler := NewOpenSessionCommandHandler(store)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to open session: %w", err)
//	}
type OpenSessionCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	quote     *quote.Quote

	guard guard.ConstructorGuard
}

// NewOpenSessionCommand creates a command to open a finalization session.
func NewOpenSessionCommand(sessionID kernel.UUID, q *quote.Quote) (OpenSessionCommand, error) {
	cmd := OpenSessionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSessionID(sessionID),
		cmd.setQuote(q),
	); err != nil {
		return OpenSessionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c OpenSessionCommand) Validate() error {
	return c.guard.Validate(ErrOpenSessionCommandIsNotConstructed)
}

// SessionID returns the identifier of the session to open.
func (c OpenSessionCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// Quote returns the quote being finalized.
func (c OpenSessionCommand) Quote() *quote.Quote {
	return c.quote
}

func (c *OpenSessionCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *OpenSessionCommand) setQuote(q *quote.Quote) error {
	if err := q.Validate(); err != nil {
		return err
	}

	c.quote = q
	return nil
}

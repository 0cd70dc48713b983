package exchange

import "errors"

// Validation and state errors surfaced to the command boundary. None of these
// are fatal to the process; the command surface maps them to user messages.
var (
	// ErrNotBound means no chat has been bound yet.
	ErrNotBound = errors.New("no chat is bound")
	// ErrWrongChat means a chat-scoped command was issued outside the bound chat.
	ErrWrongChat = errors.New("command issued outside the bound chat")
	// ErrInvalidToken means the join token does not exist.
	ErrInvalidToken = errors.New("join token does not exist")
	// ErrChatMismatch means the token belongs to a chat other than the bound one.
	ErrChatMismatch = errors.New("join token belongs to another chat")
	// ErrRegistrationClosed means the join token has been closed or superseded.
	ErrRegistrationClosed = errors.New("registration is closed")
	// ErrNotAParticipant means the caller is not an active participant of the bound chat.
	ErrNotAParticipant = errors.New("not an active participant")
	// ErrWishlistTooLong means the wishlist text exceeds the configured limit.
	ErrWishlistTooLong = errors.New("wishlist text too long")
	// ErrInsufficientParticipants means fewer than three active participants.
	ErrInsufficientParticipants = errors.New("need at least 3 active participants")
	// ErrNoPairs means there is no persisted assignment to act on.
	ErrNoPairs = errors.New("no pairs have been drawn yet")
	// ErrDerangementUnsatisfiable means the engine could not produce a valid
	// assignment even after the repair pass. Fatal to the draw, nothing is
	// persisted.
	ErrDerangementUnsatisfiable = errors.New("failed to create a valid assignment")
	// ErrDrawInProgress means another draw for the same chat holds the lock.
	ErrDrawInProgress = errors.New("a draw is already in progress for this chat")
)

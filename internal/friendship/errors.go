package friendship

import "errors"

// Every service failure is one of these sentinel values; callers match with
// errors.Is and map each to a single stable response.
var (
	// ErrSelfRequest indicates a friend request targeting the acting user.
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")

	// ErrAccountNotFound indicates the target username does not resolve.
	ErrAccountNotFound = errors.New("account not found")

	// ErrPermanentlyBlocked indicates the pair has a deleted record; no new
	// request may ever be created between them.
	ErrPermanentlyBlocked = errors.New("friendship is permanently blocked")

	// ErrRequestAlreadyExists indicates a duplicate pending request in the
	// same direction.
	ErrRequestAlreadyExists = errors.New("friendship request already sent")

	// ErrRequestNotFound indicates accept/decline targeted an id with no
	// active (pending) record.
	ErrRequestNotFound = errors.New("active friendship request not found")

	// ErrSelfAccept indicates a sender tried to confirm their own request.
	ErrSelfAccept = errors.New("cannot accept your own friendship request")

	// ErrNotFriends indicates removal targeted the acting user or a pair
	// with no record at all.
	ErrNotFriends = errors.New("user is not in the friends list")
)

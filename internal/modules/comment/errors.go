package comment

import "errors"

var (
	ErrNotSignedIn    = errors.New("not signed in")
	ErrEmptyComment   = errors.New("comment text is empty")
	ErrSubmitInFlight = errors.New("a comment is already being submitted")
)

// MsgSubmitFailed is the single notice emitted when a submission is rolled back.
const MsgSubmitFailed = "Failed to add comment"

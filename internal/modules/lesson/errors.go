package lesson

import "errors"

var (
	ErrNotSignedIn      = errors.New("not signed in")
	ErrAlreadyLiked     = errors.New("lesson already liked")
	ErrAlreadyFavorited = errors.New("lesson already favorited")
	ErrActionInFlight   = errors.New("another action on this lesson is in progress")
	ErrInvalidReason    = errors.New("invalid report reason")
)

// Notice texts shown to the person.
const (
	MsgLiked            = "Liked Story"
	MsgLikeFailed       = "Failed to like"
	MsgFavorited        = "Added to favorites!"
	MsgAlreadyFavorited = "You already added this lesson to favorites!"
	MsgFavoriteFailed   = "Failed to add favorite!"
	MsgReported         = "Thank you for reporting. We will review it soon."
	MsgReportFailed     = "Failed to report this lesson."
)

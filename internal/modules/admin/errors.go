package admin

import "errors"

var (
	ErrNotSignedIn      = errors.New("sign in required")
	ErrUserNotFound     = errors.New("user not found")
	ErrProtectedAccount = errors.New("account is protected")
	ErrRowBusy          = errors.New("another action on this user is in progress")
)

const (
	MsgRoleUpdated     = "User role updated to "
	MsgRoleFailed      = "Failed to update role"
	MsgRoleProtected   = "Cannot change role of protected admin!"
	MsgDeleted         = "User deleted successfully"
	MsgDeleteFailed    = "Failed to delete user"
	MsgDeleteProtected = "Cannot delete protected admin!"
)

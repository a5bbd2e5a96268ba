package relationship

import "errors"

var (
	ErrAlreadySubscribed   = errors.New("already subscribed to this author")
	ErrNotSubscribed       = errors.New("not subscribed to this author")
	ErrCannotSubscribeSelf = errors.New("cannot subscribe to yourself")
	ErrAuthorNotFound      = errors.New("author not found")
)

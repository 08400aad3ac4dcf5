package notify

import "errors"

// ErrUnknownChannel is reported when a rule names a channel with no sender.
var ErrUnknownChannel = errors.New("no sender registered for channel")

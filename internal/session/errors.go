package session

import "errors"

var ErrNoToken = errors.New("session: no token in request")

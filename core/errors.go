package core

import "errors"

var (
	ErrUnknownState  = errors.New("unknown state")
	ErrUnknownAction = errors.New("unknown action")
)

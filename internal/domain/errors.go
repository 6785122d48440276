package domain

import "errors"

var (
	ErrCredentialNotFound = errors.New("credential not found")
	ErrNoOngoingGame      = errors.New("no ongoing game")
	ErrNoDailyGame        = errors.New("no daily game played today")
	ErrGameOver           = errors.New("game is already over")
)

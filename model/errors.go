package model

import "errors"

var (
	// ErrNoCredentials is returned when a remote call is attempted for a
	// user without a stored Spotify token pair. No remote call is made.
	ErrNoCredentials = errors.New("no spotify credentials for user")

	// ErrNotLinked is returned when an operation needs a remote playlist
	// but the record has no Spotify ID yet.
	ErrNotLinked = errors.New("playlist is not linked to spotify")

	// ErrDurationLimitReached signals that a playlist already meets its
	// duration target. A distinct outcome, not a failure.
	ErrDurationLimitReached = errors.New("playlist duration target already reached")

	// ErrForbidden is returned when a user acts on a playlist they do
	// not own.
	ErrForbidden = errors.New("not the playlist owner")

	// ErrNoSeedTracks is returned when the filler has no tracks to seed
	// the recommendation engine with.
	ErrNoSeedTracks = errors.New("playlist has no tracks to seed recommendations")
)

package service

import "errors"

var (
	ErrInvalidNFTID   = errors.New("invalid nft_id")
	ErrInvalidAddress = errors.New("invalid address")
	ErrNoSignedInUser = errors.New("no signed in user")
	// ErrNotEligible covers both "never became eligible" and "already
	// claimed"; callers cannot tell them apart.
	ErrNotEligible = errors.New("not eligible or already claimed")
)

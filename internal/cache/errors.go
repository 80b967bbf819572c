// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import "errors"

// Sentinel errors for package cache. Check them with errors.Is.
var (
	// ErrCorruptCache means the cache file exists but is not a JSON object
	// of string values.
	ErrCorruptCache = errors.New("corrupt conversion cache")

	// ErrUnreadableFile means a candidate file exists but could not be read
	// for fingerprinting.
	ErrUnreadableFile = errors.New("unreadable file")

	// ErrEmptyIdentity is returned when recording an entry without a path.
	ErrEmptyIdentity = errors.New("empty file identity")
)

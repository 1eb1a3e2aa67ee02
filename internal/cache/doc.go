// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

/*
Package cache provides a thread-safe generic LRU cache with TTL support.

# Use Cases

  - Place details keyed by place ID, so repeated searches around the same
    origin don't re-fetch phone numbers and websites
  - Selection sessions keyed by session ID, where the TTL is the idle
    timeout and capacity bounds memory

# Usage

	details := cache.NewLRU[string, places.Details](500, 24*time.Hour)
	details.Add(placeID, d)
	if d, ok := details.Get(placeID); ok {
	    // cached
	}

Expiry is lazy: Get drops an expired entry when it sees it, and
CleanupExpired sweeps the whole list. Entries removed by capacity pressure
or expiry are reported to the OnEvict callback.
*/
package cache

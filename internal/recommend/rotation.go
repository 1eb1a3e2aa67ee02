// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package recommend

import "github.com/tomtom215/wwte/internal/models"

// pushRecent puts id at the front of the rotation window, dropping any
// earlier occurrence and the oldest entries beyond limit.
func pushRecent(recent []string, id string, limit int) []string {
	out := make([]string, 0, limit)
	out = append(out, id)
	for _, existing := range recent {
		if len(out) >= limit {
			break
		}
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

// pushHistory puts r at the front of history, removing any older entry
// with the same place ID and truncating to limit.
func pushHistory(history []models.Restaurant, r models.Restaurant, limit int) []models.Restaurant {
	out := make([]models.Restaurant, 0, limit)
	out = append(out, r)
	for i := range history {
		if len(out) >= limit {
			break
		}
		if history[i].PlaceID != r.PlaceID {
			out = append(out, history[i])
		}
	}
	return out
}

// exclusionSet unions the user's excluded places, the rotation window, and the blacklist.
func exclusionSet(excluded, recent []string, blacklist map[string]struct{}) map[string]struct{} {
	set := make(map[string]struct{}, len(excluded)+len(recent)+len(blacklist))
	for _, id := range excluded {
		set[id] = struct{}{}
	}
	for _, id := range recent {
		set[id] = struct{}{}
	}
	for id := range blacklist {
		set[id] = struct{}{}
	}
	return set
}

// rerollCandidates returns history entries outside the rotation window and blacklist.
func rerollCandidates(history []models.Restaurant, recent []string, blacklist map[string]struct{}) []models.Restaurant {
	skip := exclusionSet(nil, recent, blacklist)
	out := make([]models.Restaurant, 0, len(history))
	for i := range history {
		if _, excluded := skip[history[i].PlaceID]; !excluded {
			out = append(out, history[i])
		}
	}
	return out
}

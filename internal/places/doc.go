// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

/*
Package places is the Google Places web service client used to find
candidate restaurants around a location.

A search runs up to three nearby-search pages. Each continuation page
waits PageDelay first because a freshly issued page token is rejected
with INVALID_REQUEST for a short while. Results are filtered as they
arrive:

  - place IDs in the caller's exclusion set are dropped
  - duplicates across pages are dropped
  - places below the minimum rating or review count are dropped
    (a missing rating or count counts as zero)

Paging stops once TargetCount candidates are collected or no token is
returned. Every surviving candidate is then enriched with a details
lookup (phone, formatted address, website) in a bounded fan-out. A failed
lookup never fails the search: the candidate keeps its nearby-search
address and no phone or website.

The initial page is authoritative: a transport error, non-2xx response or
a status other than OK/ZERO_RESULTS fails the search. A failed
continuation page ends paging and the search returns what it has.

# Resilience

  - x/time/rate limiter on every outbound request
  - exponential backoff on HTTP 429, honouring Retry-After
  - sony/gobreaker circuit breaker ("places-api") around the transport
  - LRU cache of place details keyed by place ID

The API key is sent as a query parameter, so transport errors are
rewritten to mask it before they are returned or logged.
*/
package places

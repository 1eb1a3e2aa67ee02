// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package places

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/wwte/internal/metrics"
	"github.com/tomtom215/wwte/internal/models"
)

const detailFields = "formatted_phone_number,formatted_address,website"

// Details fetches phone, formatted address and website for one place.
// Successful lookups are cached by place ID.
func (c *Client) Details(ctx context.Context, placeID string) (Details, error) {
	if c.details != nil {
		if d, ok := c.details.Get(placeID); ok {
			metrics.RecordCacheLookup("place_details", true)
			return d, nil
		}
		metrics.RecordCacheLookup("place_details", false)
	}

	start := time.Now()
	req := newAPIRequest(endpointDetails).
		addParam("place_id", placeID).
		addParam("language", c.language).
		addParam("fields", detailFields)

	var resp detailsResponse
	if err := c.getJSON(ctx, endpointDetails, req, &resp); err != nil {
		recordOutcome(endpointDetails, "", start)
		return Details{}, err
	}
	recordOutcome(endpointDetails, resp.Status, start)

	if resp.Status != StatusOK {
		return Details{}, &StatusError{Endpoint: "place details", Status: resp.Status, Message: resp.ErrorMessage}
	}

	var d Details
	if resp.Result != nil {
		d = *resp.Result
	}
	if c.details != nil {
		c.details.Add(placeID, d)
	}
	return d, nil
}

// enrich looks up details for every candidate concurrently, bounded by
// detailConcurrency. Order is preserved. A failed lookup leaves the
// candidate as it came from the nearby search.
func (c *Client) enrich(ctx context.Context, candidates []models.Restaurant) []models.Restaurant {
	out := make([]models.Restaurant, len(candidates))
	copy(out, candidates)
	if len(out) == 0 {
		return out
	}

	var g errgroup.Group
	g.SetLimit(c.detailConcurrency)

	for i := range out {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				c.detailFallback(out[i].PlaceID, err)
				return nil
			}

			d, err := c.Details(ctx, out[i].PlaceID)
			if err != nil {
				c.detailFallback(out[i].PlaceID, err)
				return nil
			}
			applyDetails(&out[i], d)
			return nil
		})
	}

	// Lookups never fail the group; a failed one falls back instead.
	_ = g.Wait()
	return out
}

func (c *Client) detailFallback(placeID string, err error) {
	metrics.PlacesDetailFallbacks.Inc()
	c.logger.Warn().Err(err).Str("place_id", placeID).Msg("failed to fetch place details")
}

// applyDetails copies looked-up fields onto r; an empty formatted address
// keeps the nearby-search vicinity.
func applyDetails(r *models.Restaurant, d Details) {
	r.Phone = d.FormattedPhoneNumber
	r.Website = d.Website
	if d.FormattedAddress != "" {
		r.Address = d.FormattedAddress
	}
}

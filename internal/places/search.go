// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package places

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/wwte/internal/geo"
	"github.com/tomtom215/wwte/internal/metrics"
	"github.com/tomtom215/wwte/internal/models"
)

// Search returns restaurants near origin that pass filters and are not in
// exclude, each enriched with details where the lookup succeeded.
func (c *Client) Search(ctx context.Context, origin geo.Coordinate, filters models.SearchFilters, exclude map[string]struct{}) ([]models.Restaurant, error) {
	start := time.Now()
	req := c.nearbyRequest(origin, filters)
	seen := make(map[string]struct{})
	aggregated := make([]models.Restaurant, 0, c.targetCount)
	pages := 0

	for page := 0; page < c.maxPages; page++ {
		if page > 0 {
			if err := c.wait(ctx, c.pageDelay); err != nil {
				return nil, err
			}
		}

		resp, err := c.fetchNearbyPage(ctx, req)
		if err != nil {
			if page == 0 || ctx.Err() != nil {
				return nil, err
			}
			c.logger.Warn().
				Err(err).
				Int("page", page+1).
				Int("candidates", len(aggregated)).
				Msg("continuation page failed, keeping results so far")
			break
		}
		pages++

		for i := range resp.Results {
			r := &resp.Results[i]
			if r.PlaceID == "" {
				continue
			}
			if _, excluded := exclude[r.PlaceID]; excluded {
				continue
			}
			if _, dup := seen[r.PlaceID]; dup {
				continue
			}
			restaurant := c.toRestaurant(r, origin)
			if !filters.Accepts(&restaurant) {
				continue
			}
			seen[r.PlaceID] = struct{}{}
			aggregated = append(aggregated, restaurant)
		}

		if len(aggregated) >= c.targetCount || resp.NextPageToken == "" {
			break
		}
		req = newAPIRequest(endpointNearby).addParam("pagetoken", resp.NextPageToken)
	}

	results := c.enrich(ctx, aggregated)
	metrics.PlacesCandidates.Observe(float64(len(results)))

	c.logger.Debug().
		Int("pages", pages).
		Int("candidates", len(results)).
		Int("excluded", len(exclude)).
		Dur("elapsed", time.Since(start)).
		Msg("nearby search completed")

	return results, nil
}

// nearbyRequest builds the first-page query from the filters.
func (c *Client) nearbyRequest(origin geo.Coordinate, filters models.SearchFilters) *apiRequest {
	req := newAPIRequest(endpointNearby).
		addParam("location", origin.String()).
		addIntParam("radius", filters.Radius).
		addParam("language", c.language)

	if filters.OpenNow {
		req.addParam("opennow", "true")
	}
	if lo, hi, ok := filters.PriceRange(); ok {
		req.addIntParam("minprice", lo).addIntParam("maxprice", hi)
	}
	if len(filters.Categories) > 0 {
		req.addParam("keyword", strings.Join(filters.Categories, " "))
	}
	return req
}

func (c *Client) fetchNearbyPage(ctx context.Context, req *apiRequest) (*nearbyResponse, error) {
	start := time.Now()
	var resp nearbyResponse
	if err := c.getJSON(ctx, endpointNearby, req, &resp); err != nil {
		recordOutcome(endpointNearby, "", start)
		return nil, err
	}
	recordOutcome(endpointNearby, resp.Status, start)

	switch resp.Status {
	case StatusOK:
		return &resp, nil
	case StatusZeroResults:
		return &nearbyResponse{Status: resp.Status}, nil
	default:
		return nil, &StatusError{Endpoint: "nearby search", Status: resp.Status, Message: resp.ErrorMessage}
	}
}

// toRestaurant maps a nearby-search result. Missing rating and review count become 0.
func (c *Client) toRestaurant(r *placeResult, origin geo.Coordinate) models.Restaurant {
	out := models.Restaurant{
		PlaceID:    r.PlaceID,
		Name:       r.Name,
		PriceLevel: r.PriceLevel,
		Types:      append([]string{}, r.Types...),
		Address:    r.Vicinity,
		Location: geo.Coordinate{
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		},
	}
	if r.Rating != nil {
		out.Rating = *r.Rating
	}
	if r.UserRatingsTotal != nil {
		out.UserRatingsTotal = *r.UserRatingsTotal
	}
	if r.OpeningHours != nil {
		out.OpenNow = r.OpeningHours.OpenNow
	}
	if len(r.Photos) > 0 {
		out.PhotoURL = c.PhotoURL(r.Photos[0].PhotoReference)
	}
	return out.WithDistanceFrom(origin)
}

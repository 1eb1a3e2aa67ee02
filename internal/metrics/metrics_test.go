// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount extracts the observation count from a histogram.
func histogramCount(t *testing.T, obs prometheus.Observer) uint64 {
	t.Helper()
	m, ok := obs.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T is not a metric", obs)
	}
	var pb io_prometheus_client.Metric
	if err := m.Write(&pb); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return pb.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200"))
	observed := histogramCount(t, APIRequestDuration.WithLabelValues("GET", "/api/v1/health"))

	RecordAPIRequest("GET", "/api/v1/health", "200", 5*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200"))
	if after-before != 1 {
		t.Errorf("api_requests_total delta = %v, want 1", after-before)
	}
	if got := histogramCount(t, APIRequestDuration.WithLabelValues("GET", "/api/v1/health")) - observed; got != 1 {
		t.Errorf("api_request_duration_seconds count delta = %d, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("api_active_requests = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordPlacesRequest(t *testing.T) {
	before := testutil.ToFloat64(PlacesRequestsTotal.WithLabelValues("nearby", "zero_results"))
	observed := histogramCount(t, PlacesRequestDuration.WithLabelValues("nearby"))

	RecordPlacesRequest("nearby", "zero_results", 120*time.Millisecond)

	after := testutil.ToFloat64(PlacesRequestsTotal.WithLabelValues("nearby", "zero_results"))
	if after-before != 1 {
		t.Errorf("places_requests_total delta = %v, want 1", after-before)
	}
	if got := histogramCount(t, PlacesRequestDuration.WithLabelValues("nearby")) - observed; got != 1 {
		t.Errorf("places_request_duration_seconds count delta = %d, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("test"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("test"))

	RecordCacheLookup("test", true)
	RecordCacheLookup("test", false)
	RecordCacheLookup("test", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("test")) - hits; got != 1 {
		t.Errorf("cache hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("test")) - misses; got != 2 {
		t.Errorf("cache misses delta = %v, want 2", got)
	}
}

func TestRecordPreferenceWrite(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantFailures float64
	}{
		{"success", nil, 0},
		{"failure", errors.New("disk full"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := "test_" + tt.name
			writes := testutil.ToFloat64(PreferenceWrites.WithLabelValues(record))
			failures := testutil.ToFloat64(PreferencePersistFailures.WithLabelValues(record))

			RecordPreferenceWrite(record, tt.err)

			if got := testutil.ToFloat64(PreferenceWrites.WithLabelValues(record)) - writes; got != 1 {
				t.Errorf("writes delta = %v, want 1", got)
			}
			if got := testutil.ToFloat64(PreferencePersistFailures.WithLabelValues(record)) - failures; got != tt.wantFailures {
				t.Errorf("failures delta = %v, want %v", got, tt.wantFailures)
			}
		})
	}
}

func TestRecordPickAndTransition(t *testing.T) {
	picks := testutil.ToFloat64(SelectionPicksTotal.WithLabelValues("history"))
	transitions := testutil.ToFloat64(SelectionStateTransitions.WithLabelValues("ready"))

	RecordPick("history")
	RecordStateTransition("ready")

	if got := testutil.ToFloat64(SelectionPicksTotal.WithLabelValues("history")) - picks; got != 1 {
		t.Errorf("picks delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SelectionStateTransitions.WithLabelValues("ready")) - transitions; got != 1 {
		t.Errorf("transitions delta = %v, want 1", got)
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusLabel(404); got != "404" {
		t.Errorf("StatusLabel(404) = %q, want %q", got, "404")
	}
}

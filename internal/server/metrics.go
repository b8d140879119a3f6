package server

import (
	"errors"
	"sync"
	"time"
)

// Metrics holds per-server counters. All methods are safe for concurrent use.
type Metrics struct {
	mu sync.RWMutex

	// Upload metrics
	uploadsTotal        int64
	uploadBytesTotal    int64
	uploadErrorsTotal   int64
	uploadDurationTotal time.Duration
	uploadRejections    map[string]int64

	// Listing metrics
	listingsTotal      int64
	listingErrorsTotal int64
	lastListingCount   int64

	// System metrics
	requestsTotal    int64
	requestErrors5xx int64
	requestErrors4xx int64
}

func NewMetrics() *Metrics {
	return &Metrics{uploadRejections: make(map[string]int64)}
}

// RecordUpload records a stored image.
func (m *Metrics) RecordUpload(bytes int64, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadsTotal++
	m.uploadBytesTotal += bytes
	m.uploadDurationTotal += duration
}

// RecordUploadRejected counts a client-caused upload failure by reason.
func (m *Metrics) RecordUploadRejected(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadRejections[rejectionLabel(err)]++
}

// RecordUploadError records an internal upload failure.
func (m *Metrics) RecordUploadError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadErrorsTotal++
}

// RecordListing records a served listing and how many images it held.
func (m *Metrics) RecordListing(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listingsTotal++
	m.lastListingCount = int64(count)
}

func (m *Metrics) RecordListingError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listingErrorsTotal++
}

// RecordRequest records an HTTP request
func (m *Metrics) RecordRequest(statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++

	if statusCode >= 500 {
		m.requestErrors5xx++
	} else if statusCode >= 400 {
		m.requestErrors4xx++
	}
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rejections := make(map[string]int64, len(m.uploadRejections))
	for k, v := range m.uploadRejections {
		rejections[k] = v
	}

	return MetricsSnapshot{
		UploadsTotal:        m.uploadsTotal,
		UploadBytesTotal:    m.uploadBytesTotal,
		UploadErrorsTotal:   m.uploadErrorsTotal,
		UploadAvgDurationMs: avgDuration(m.uploadDurationTotal, m.uploadsTotal),
		UploadRejections:    rejections,
		ListingsTotal:       m.listingsTotal,
		ListingErrorsTotal:  m.listingErrorsTotal,
		LastListingCount:    m.lastListingCount,
		RequestsTotal:       m.requestsTotal,
		RequestErrors5xx:    m.requestErrors5xx,
		RequestErrors4xx:    m.requestErrors4xx,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	// Upload metrics
	UploadsTotal        int64            `json:"uploads_total"`
	UploadBytesTotal    int64            `json:"upload_bytes_total"`
	UploadErrorsTotal   int64            `json:"upload_errors_total"`
	UploadAvgDurationMs float64          `json:"upload_avg_duration_ms"`
	UploadRejections    map[string]int64 `json:"upload_rejections"`

	// Listing metrics
	ListingsTotal      int64 `json:"listings_total"`
	ListingErrorsTotal int64 `json:"listing_errors_total"`
	LastListingCount   int64 `json:"last_listing_count"`

	// System metrics
	RequestsTotal    int64 `json:"requests_total"`
	RequestErrors5xx int64 `json:"request_errors_5xx"`
	RequestErrors4xx int64 `json:"request_errors_4xx"`
}

// rejectionLabel names the reason an upload was turned away.
func rejectionLabel(err error) string {
	switch {
	case errors.Is(err, ErrMissingFile):
		return "missing_file"
	case errors.Is(err, ErrUnexpectedField):
		return "unexpected_field"
	case errors.Is(err, ErrUnsupportedMediaType):
		return RejectUnsupportedMediaType.String()
	case errors.Is(err, ErrPayloadTooLarge):
		return RejectPayloadTooLarge.String()
	default:
		return "other"
	}
}

func avgDuration(total time.Duration, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total.Milliseconds()) / float64(count)
}

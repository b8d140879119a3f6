// prometheus.go - Prometheus text exposition of the server counters
package server

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Handler returns the GET /metrics handler.
func (m *Metrics) Handler(startedAt time.Time, build BuildInfo) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot := m.Snapshot()

		var output strings.Builder

		writeMetric(&output, "fotos_info", "gauge", "Application version info",
			fmt.Sprintf("fotos_info{version=\"%s\",commit=\"%s\"} 1\n",
				prometheusLabel(orDefault(build.Version, "dev")),
				prometheusLabel(orDefault(build.Commit, "unknown"))))

		writeMetric(&output, "fotos_requests_total", "counter", "Total number of HTTP requests",
			fmt.Sprintf("fotos_requests_total %d\n", snapshot.RequestsTotal))

		writeMetric(&output, "fotos_request_errors_total", "counter", "HTTP responses with an error status, by class",
			fmt.Sprintf("fotos_request_errors_total{class=\"4xx\"} %d\nfotos_request_errors_total{class=\"5xx\"} %d\n",
				snapshot.RequestErrors4xx, snapshot.RequestErrors5xx))

		writeMetric(&output, "fotos_uploads_total", "counter", "Total number of stored images",
			fmt.Sprintf("fotos_uploads_total %d\n", snapshot.UploadsTotal))

		writeMetric(&output, "fotos_upload_bytes_total", "counter", "Total bytes written to the storage directory",
			fmt.Sprintf("fotos_upload_bytes_total %d\n", snapshot.UploadBytesTotal))

		writeMetric(&output, "fotos_upload_errors_total", "counter", "Uploads that failed with an internal error",
			fmt.Sprintf("fotos_upload_errors_total %d\n", snapshot.UploadErrorsTotal))

		reasons := make([]string, 0, len(snapshot.UploadRejections))
		for reason := range snapshot.UploadRejections {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		var rejected strings.Builder
		for _, reason := range reasons {
			rejected.WriteString(fmt.Sprintf("fotos_upload_rejections_total{reason=\"%s\"} %d\n",
				prometheusLabel(reason), snapshot.UploadRejections[reason]))
		}
		writeMetric(&output, "fotos_upload_rejections_total", "counter", "Uploads rejected by validation, by reason",
			rejected.String())

		writeMetric(&output, "fotos_listings_total", "counter", "Total number of served listings",
			fmt.Sprintf("fotos_listings_total %d\n", snapshot.ListingsTotal))

		writeMetric(&output, "fotos_listing_errors_total", "counter", "Listings that failed to read the storage directory",
			fmt.Sprintf("fotos_listing_errors_total %d\n", snapshot.ListingErrorsTotal))

		writeMetric(&output, "fotos_stored_images", "gauge", "Images found by the most recent listing",
			fmt.Sprintf("fotos_stored_images %d\n", snapshot.LastListingCount))

		writeMetric(&output, "fotos_uptime_seconds", "counter", "Application uptime in seconds",
			fmt.Sprintf("fotos_uptime_seconds %.0f\n", time.Since(startedAt).Seconds()))

		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(output.String()))
	})
}

func writeMetric(sb *strings.Builder, name, kind, help, samples string) {
	sb.WriteString("# HELP " + name + " " + help + "\n")
	sb.WriteString("# TYPE " + name + " " + kind + "\n")
	sb.WriteString(samples)
	sb.WriteString("\n")
}

// Helper function to format label safely for Prometheus
func prometheusLabel(value string) string {
	// Escape quotes and backslashes
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

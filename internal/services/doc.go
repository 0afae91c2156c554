// Package services defines the [MetadataService] interface for TV metadata providers and implements it for TheTVDB.
//
// # TheTVDB Implementation
//
// [TVDBService] speaks the provider's legacy XML API:
//   - search: GET {base}/api/GetSeries.php?seriesname={name}
//   - detail: GET {base}/api/{apiKey}/series/{id}/all/{language}.xml
//   - banner: GET {base}/banners/{path}
//
// Documents are decoded with encoding/xml into [SeriesSummary], [SeriesRecord] and
// [EpisodeRecord], which keep the provider's element casing. [SeriesDetail.Show] maps a
// detail document to a models.Show. The genre string is pipe-delimited and empty
// segments are dropped.
//
// Calls are never retried. The client carries an optional timeout and a shared
// rate limiter, both from the [tvdb] config section.
//
// # Error Handling
//
// Transport failures, non-2xx statuses and undecodable documents wrap [shared.ErrUpstream].
// An empty search result is not an error. The API key is redacted from transport errors.
package services

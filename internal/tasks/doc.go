// Package tasks implements the show import pipeline.
//
// # Pipeline
//
// [ShowImporter.Import] walks four phases in order, each starting only after the previous one completes:
//
//  1. [SearchSeries] : normalize the name and search the provider; the first candidate wins
//  2. [FetchSeries] : fetch the full series record and its episodes
//  3. [FetchPoster] : download the poster and inline it as a base64 data URI
//  4. [SaveShow] : persist the show, its genres and episodes in one transaction
//
// Nothing is retried or cached, and a failure leaves the store untouched.
//
// # Outcomes
//
//   - [*ShowNotFoundError] : no candidate for the name (matches shared.ErrNotFound)
//   - [*ShowExistsError] : the series is already stored (matches shared.ErrAlreadyExists)
//   - [*ImportError] : any other failure, tagged with the [Phase] that produced it
//
// # Progress Reporting
//
// Import accepts an optional channel of [ProgressUpdate]. Sends use select with default,
// so a slow or absent reader never blocks the pipeline.
package tasks

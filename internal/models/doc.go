// Package models defines domain entities for the show tracking service.
//
//   - [Show] : a television series keyed by the metadata provider's series id,
//     carrying its genre set, subscriber ids and ordered [Episode] values
//   - [Episode] : season/episode value owned by a show
//   - [User] : an account identified by a generated UUID and a unique email;
//     the bcrypt hash it carries is excluded from JSON
//   - [ShowFilter] : listing criteria (genre, leading letters, or the default capped listing)
//
// JSON field names follow the wire format the single-page front end consumes
// (`_id`, `airsDayOfWeek`, `episodeNumber`, ...).
package models

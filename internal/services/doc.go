// Package services contains clients for remote music services.
//
// [ShazamService] is the production [Recognizer]: it uploads a captured WAV
// clip to the RapidAPI Shazam recognize endpoint and normalizes the response
// into a [models.Track], defaulting omitted title/artist to "Unknown" and the
// service key to empty. Outcome mapping:
//
//   - transport failure → *[ServiceError] with Transient=true
//   - 5xx status → *[ServiceError] with Transient=true plus code and body
//   - other non-2xx status → *[ServiceError] with Transient=false
//   - 2xx without a track payload → [shared.ErrNotRecognized]
//
// The client never retries and never rate limits; both belong to callers.
package services

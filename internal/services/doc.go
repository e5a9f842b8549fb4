// Package services implements the outbound HTTP collaborators of the media relay.
//
// # Resolver
//
// [TiklydownService] implements [Resolver]. One GET to the resolution API turns a
// shareable TikTok URL into direct, time-limited media URLs. The caller names the
// [models.MediaKind] it wants; if that field is missing from the response the call
// fails even when other kinds are present.
//
// # Fetcher
//
// [HTTPFetcher] implements [Fetcher]. It streams one direct URL to a local file and
// reports the byte count. It never removes what it wrote; the relay pipeline owns
// file lifetime.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrResolve] : resolver request failed or returned an unreadable body
//   - [shared.ErrMediaNotFound] : the requested kind is absent from the response
//   - [shared.ErrDownload] : transport, status or write failure while fetching
//
// Both share one [http.Client] built at startup and passed in by the caller.
package services

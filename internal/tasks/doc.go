// Package tasks orchestrates media relays from a shareable video URL back into the chat.
//
// # Core Operations
//
// [RelayPipeline] exposes one entry point per media kind:
//
//  1. [RelayPipeline.Video] : resolve the no-watermark video, fetch it, upload one attachment
//  2. [RelayPipeline.Audio] : resolve the soundtrack, fetch it, upload one attachment
//  3. [RelayPipeline.Images] : resolve a slideshow, fetch every image in order and
//     upload them in batches of the configured size
//
// Each invocation runs Defer → Resolve → Fetch → Upload → Delete in that order.
// The chat side is reached through the [Responder] port, so the pipeline has no
// knowledge of the chat platform.
//
// # File Lifetime
//
// Local files are named from the requesting user id plus a request id, so two
// concurrent requests from one user never share a path. Every path is registered
// before its fetch starts and removed when the invocation returns, whether it
// succeeded or not. A cleanup failure never hides the error that ended the relay.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Updates use select
// with default so reporting never blocks the relay.
package tasks

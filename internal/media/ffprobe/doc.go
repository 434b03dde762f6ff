// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// avmux uses it to verify that a muxed file carries one video and one audio
// stream, and to report which input stream bounds the output duration when
// planning a batch.
package ffprobe

// Package mux replaces a video's audio track with a separate audio file by
// running ffmpeg.
//
// Every backend produces the same invocation: video from the first input,
// audio from the second, H.264 video, AAC audio, output cut at the shorter
// stream, MP4 container. Output is written to a hidden partial file next to
// the target and renamed into place only after ffmpeg succeeds.
//
// Backends:
//   - exec: builds the argument list directly and runs the binary.
//   - ffmpeg-go: builds the same graph with github.com/u2takey/ffmpeg-go.
package mux

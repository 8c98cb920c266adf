// Package files adapts the reconcile engine to cooked audio files: banks on
// one side, streamed media and external sources on the other.
package files

//go:build gifcreate

package render

// CaptureEnabled is set by the gifcreate build tag.
const CaptureEnabled = true

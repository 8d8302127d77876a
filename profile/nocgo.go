//go:build !cgo

package profile

const cgoEnabled = false

//go:build !zdebug

package debug

const defaultEnabled = false

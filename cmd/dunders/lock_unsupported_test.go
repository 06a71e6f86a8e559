//go:build !unix && !windows

package main

const lockSupported = false

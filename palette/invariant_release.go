//go:build !debug

package palette

const debugInvariants = false

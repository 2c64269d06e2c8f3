// Package process terminates browser process trees.
package process

// Package capture owns the camera lifecycle: device selection, preview
// acquisition, recording via ffmpeg, and the spool files recordings leave
// behind.
//
// The controller is a small state machine (idle, previewing, recording,
// recorded) with serialized transitions. Recording negotiates a container
// against the local ffmpeg build from a preference list, and finished clips
// are labeled with one canonical content type without re-encoding. A udev
// netlink monitor notices cameras detaching mid-session.
package capture

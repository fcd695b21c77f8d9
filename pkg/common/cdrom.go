// Package common provides common utilities for CD-ROM operations.
// This file contains the MSF timecode arithmetic used for reporting and CUE addressing.
package common

import "fmt"

// CD addressing constants
const (
	FramesPerSecond  = 75 // A 1x drive reads 75 sectors (frames) per second
	SecondsPerMinute = 60
	FramesPerMinute  = FramesPerSecond * SecondsPerMinute
	PregapFrames     = 2 * FramesPerSecond // Standard 150 sector pregap before LBA 0
)

// Timecode is a position on a disc measured in frames. It is signed because
// sectors inside the pregap are addressed with negative values.
type Timecode int32

// FromMSF creates a timecode from minutes, seconds and frames
func FromMSF(minutes, seconds, frames int) Timecode {
	return Timecode(minutes*FramesPerMinute + seconds*FramesPerSecond + frames)
}

// FromFrames creates a timecode from a raw frame (sector) count
func FromFrames(frames int32) Timecode {
	return Timecode(frames)
}

// Add returns the sum of two timecodes
func (t Timecode) Add(other Timecode) Timecode {
	return t + other
}

// Neg returns the timecode with its sign flipped
func (t Timecode) Neg() Timecode {
	return -t
}

// Frames returns the raw frame count
func (t Timecode) Frames() int32 {
	return int32(t)
}

// MSF decomposes the timecode into minutes, seconds and frames.
// Negative timecodes yield non-positive components, so FromMSF(t.MSF()) == t always holds.
func (t Timecode) MSF() (minutes, seconds, frames int) {
	total := int(t)
	frames = total % FramesPerSecond
	seconds = (total / FramesPerSecond) % SecondsPerMinute
	minutes = total / FramesPerMinute
	return minutes, seconds, frames
}

// String formats the timecode as MM:SS:FF, prefixed with '-' when negative
func (t Timecode) String() string {
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	m, s, f := t.MSF()
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, m, s, f)
}

// LBAToMSF converts LBA (Logical Block Address) to MSF (Minutes:Seconds:Frames) format
// LBA to MSF conversion: LBA + 150 (pregap)
func LBAToMSF(lba int32) string {
	return FromFrames(lba).Add(PregapFrames).String()
}

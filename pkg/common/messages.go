package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else if log.GetLevel() >= log.DebugLevel {
		log.SetLevel(log.InfoLevel)
	}
}

// ConfigureLogging sets up logrus output and formatting. The following
// environment variables are honoured:
//
//	LOG_FORMAT	set to `json` for JSON logging
//	LOG_LEVEL	`panic`, `fatal`, `error`, `warn`, `info`, `debug`, `trace`
func ConfigureLogging(out io.Writer) {
	log.SetOutput(out)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		l, err := log.ParseLevel(level)
		if err != nil {
			log.Errorf("invalid log level: '%s'; valid levels are: panic, "+
				"fatal, error, warn, info, debug, trace", level)
		} else {
			log.SetLevel(l)
		}
	}
}

// Error messages
const (
	ErrFailedToReadMDS         = "failed to read MDS file"
	ErrFailedToDecodeMDS       = "failed to decode MDS file"
	ErrFailedToOpenTrackData   = "failed to open track data file"
	ErrFailedToReadSector      = "failed to read sector"
	ErrFailedToWriteSector     = "failed to write sector"
	ErrFailedToCreateOutput    = "failed to create output file"
	ErrFailedToCloseOutput     = "failed to close output file"
	ErrFailedToWriteCueSheet   = "failed to write cue sheet"
	ErrFailedToExportInfo      = "failed to export disc information"
	ErrUnsupportedOutputFormat = "unsupported output format"
	ErrCommandFailed           = "command failed: %v"
)

// Info messages
const (
	InfoLoadedMDS        = "Loaded %s: %s, %s"
	InfoWritingISO       = "Writing ISO image to %s"
	InfoWritingBin       = "Writing BIN image to %s"
	InfoWritingCue       = "Writing cue sheet to %s"
	InfoConversionDone   = "Wrote %d sectors (%d bytes) to %s"
	InfoEmptyTrackOutput = "Track has no sectors, output will be empty"
)

// Debug messages
const (
	DebugHeader        = "Header: version=%s, media=%s, sessions=%d, session table=0x%X"
	DebugSession       = "Session %d: sectors %d..%d, %d blocks (%d lead-in), track table=0x%X"
	DebugTrack         = "Track block %d: mode=%s point=0x%02X msf=%02d:%02d:%02d sector size=%d offset=0x%X"
	DebugIndexBlock    = "Index block at 0x%X: index0=%d index1=%d"
	DebugFilename      = "Filename block at 0x%X: %q (%s)"
	DebugCopyTrack     = "Copying %d sectors of %d bytes (%d data) from offset 0x%X"
	DebugCueTrackLine  = "TRACK %d %s INDEX 01 %s"
	DebugTrackDataFile = "Track %d data file: %s"
	DebugVolumeFound   = "Track %d holds ISO 9660 volume %q (%d blocks)"
	DebugNoVolume      = "Track %d: %v"
)

// Warning messages
const (
	WarnMultipleFilenames = "Track block %d references %d data files, only the first is used"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Infof(message, args...)
	} else {
		log.Info(message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Warnf(message, args...)
	} else {
		log.Warn(message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Errorf(message, args...)
	} else {
		log.Error(message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode && !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	if len(args) > 0 {
		log.Debugf(message, args...)
	} else {
		log.Debug(message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

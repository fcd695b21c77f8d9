package pkg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/hansbonini/mdstools/pkg/common"
	"github.com/hansbonini/mdstools/pkg/mds"
)

// Information about the .cue file format can be found at
// https://psx-spx.consoledev.net/cdromdrive/#cuebin-cdrwin, and in appendix A of
// the original CDRWIN user manual.

// UnknownCueTrackSizeError is returned when a track's mode and sector data
// size have no CUE track type.
type UnknownCueTrackSizeError struct {
	Mode     mds.TrackMode
	RawMode  uint8 // Mode byte as stored, set when the error comes from a track
	DataSize int
}

func (e *UnknownCueTrackSizeError) Error() string {
	mode := e.Mode.String()
	if e.Mode == mds.TrackModeUnknown {
		mode = fmt.Sprintf("Unknown(0x%02X)", e.RawMode)
	}
	return fmt.Sprintf("no cue track type for %s tracks with %d (0x%X) byte sectors",
		mode, e.DataSize, e.DataSize)
}

// cueTrackTypes maps (mode, sector data size) to the CUE track type. Sizes in
// the CUE type name exclude subchannel bytes.
var cueTrackTypes = map[mds.TrackMode]map[int]string{
	mds.TrackModeAudio: {0x930: "AUDIO"},
	mds.TrackModeMode1: {0x800: "MODE1/2048", 0x930: "MODE1/2352"},
	mds.TrackModeMode2: {0x920: "MODE2/2336", 0x930: "MODE2/2352"},
}

// CueTrackType returns the CUE track type for the given mode and sector data size
func CueTrackType(mode mds.TrackMode, dataSize int) (string, error) {
	if name, ok := cueTrackTypes[mode][dataSize]; ok {
		return name, nil
	}
	return "", &UnknownCueTrackSizeError{Mode: mode, DataSize: dataSize}
}

// CueTrack is one TRACK entry of a cue sheet
type CueTrack struct {
	Number int
	Type   string
	Index1 common.Timecode
}

// CueSheet describes a single BIN file and the tracks stored in it
type CueSheet struct {
	BinFile string
	Tracks  []CueTrack
}

// BuildCueSheet creates the cue sheet for the data tracks of session. Tracks
// are numbered from 1 in table order. Since cue sheets carry no pregap
// information, each INDEX 01 is the track's MSF start shifted by the
// session's pregap correction.
func BuildCueSheet(session *mds.Session, binFile string) (*CueSheet, error) {
	correction := session.PregapCorrection()
	sheet := &CueSheet{BinFile: binFile}

	for i, track := range session.DataTracks() {
		typ, err := CueTrackType(track.Mode, track.SectorDataSize())
		if err != nil {
			var sizeErr *UnknownCueTrackSizeError
			if errors.As(err, &sizeErr) {
				sizeErr.RawMode = track.RawMode
			}
			return nil, err
		}
		sheet.Tracks = append(sheet.Tracks, CueTrack{
			Number: i + 1,
			Type:   typ,
			Index1: track.Timecode().Add(correction),
		})
	}

	return sheet, nil
}

// WriteTo writes the cue sheet text to w
func (c *CueSheet) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64

	n, err := fmt.Fprintf(bw, "FILE \"%s\" BINARY\n", c.BinFile)
	total += int64(n)
	if err != nil {
		return total, err
	}

	for _, t := range c.Tracks {
		common.LogDebug(common.DebugCueTrackLine, t.Number, t.Type, t.Index1)
		n, err = fmt.Fprintf(bw, "  TRACK %d %s\n    INDEX 01 %s\n", t.Number, t.Type, t.Index1)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, bw.Flush()
}

// copyTrackSectors copies the sectors of track from src to dst, keeping only
// the leading SectorDataSize bytes of each sector. Trailing subchannel bytes
// are discarded. It returns the number of sectors written.
func copyTrackSectors(dst io.Writer, src io.ReaderAt, track *mds.Track) (int64, error) {
	offset, err := common.SafeUint64ToInt64(track.StartOffset)
	if err != nil {
		return 0, fmt.Errorf("invalid track offset: %w", err)
	}
	sectorSize := int64(track.SectorSize)
	dataSize := track.SectorDataSize()
	numSectors := track.NumSectors()

	length, err := common.SafeMulInt64(numSectors, sectorSize)
	if err != nil {
		return 0, fmt.Errorf("invalid track length: %w", err)
	}

	common.LogDebug(common.DebugCopyTrack, numSectors, sectorSize, dataSize, offset)

	reader := io.NewSectionReader(src, offset, length)
	buf := make([]byte, sectorSize)
	for i := int64(0); i < numSectors; i++ {
		if _, err := io.ReadFull(reader, buf); err != nil {
			return i, fmt.Errorf("%s %d: %w", common.ErrFailedToReadSector, i, err)
		}
		if _, err := dst.Write(buf[:dataSize]); err != nil {
			return i, fmt.Errorf("%s %d: %w", common.ErrFailedToWriteSector, i, err)
		}
	}

	return numSectors, nil
}

// trackDataPath resolves the data file of track or fails with ErrMissingInputFile
func trackDataPath(track *mds.Track, mdsPath string) (string, error) {
	path, ok := track.DataFilename(mdsPath)
	if !ok {
		return "", fmt.Errorf("track %d: %w", track.Point, ErrMissingInputFile)
	}
	return path, nil
}

// closeOutput closes w, reporting the close error only when err is nil
func closeOutput(w io.Closer, path string, err error) error {
	if cerr := w.Close(); cerr != nil && err == nil {
		return fmt.Errorf("%s %s: %w", common.ErrFailedToCloseOutput, path, cerr)
	}
	return err
}

// ISOEncoder converts single track discs into ISO images. An ISO holds the
// data of exactly one track, so multi track discs must use CueBinEncoder.
type ISOEncoder struct {
	opener    ReadOpener
	creator   WriteCreator
	outputDir string
}

// NewISOEncoder creates an ISO encoder. Outputs go next to the MDS file
// unless outputDir is set.
func NewISOEncoder(opener ReadOpener, creator WriteCreator, outputDir string) *ISOEncoder {
	return &ISOEncoder{opener: opener, creator: creator, outputDir: outputDir}
}

// Encode writes the single data track of disc to <mds name>.iso. All
// preconditions are checked and the data file is opened before the output
// file is created.
func (e *ISOEncoder) Encode(disc *mds.Disc, mdsPath string) (*ConversionResult, error) {
	track, err := disc.SingleTrack()
	if err != nil {
		return nil, err
	}

	dataPath, err := trackDataPath(track, mdsPath)
	if err != nil {
		return nil, err
	}
	src, err := e.opener.OpenReader(dataPath)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToOpenTrackData, err)
	}
	defer src.Close()

	isoPath := common.DerivedPath(mdsPath, e.outputDir, "iso")
	common.LogInfo(common.InfoWritingISO, isoPath)
	if track.NumSectors() == 0 {
		common.LogInfo(common.InfoEmptyTrackOutput)
	}

	out, err := e.creator.CreateWriter(isoPath)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToCreateOutput, err)
	}

	sectors, err := copyTrackSectors(out, src, track)
	if err = closeOutput(out, isoPath, err); err != nil {
		return nil, err
	}

	result := &ConversionResult{
		Format:  FormatISO,
		Outputs: []string{isoPath},
		Sectors: sectors,
		Bytes:   sectors * int64(track.SectorDataSize()),
	}
	common.LogInfo(common.InfoConversionDone, result.Sectors, result.Bytes, isoPath)
	return result, nil
}

// CueBinEncoder converts single session discs into a BIN image plus cue sheet
type CueBinEncoder struct {
	opener    ReadOpener
	creator   WriteCreator
	outputDir string
}

// NewCueBinEncoder creates a BIN/CUE encoder. Outputs go next to the MDS file
// unless outputDir is set.
func NewCueBinEncoder(opener ReadOpener, creator WriteCreator, outputDir string) *CueBinEncoder {
	return &CueBinEncoder{opener: opener, creator: creator, outputDir: outputDir}
}

// Encode writes every data track of the only session into <mds name>.bin,
// in table order, followed by the matching <mds name>.cue. The cue sheet is
// built and all data files are opened before any output file is created.
func (e *CueBinEncoder) Encode(disc *mds.Disc, mdsPath string) (*ConversionResult, error) {
	session, err := disc.SingleSession()
	if err != nil {
		return nil, err
	}
	tracks := session.DataTracks()
	if len(tracks) == 0 {
		return nil, mds.ErrNoDataTracks
	}

	binPath := common.DerivedPath(mdsPath, e.outputDir, "bin")
	cuePath := common.DerivedPath(mdsPath, e.outputDir, "cue")

	sheet, err := BuildCueSheet(session, filepath.Base(binPath))
	if err != nil {
		return nil, err
	}

	sources, closeSources, err := e.openSources(tracks, mdsPath)
	if err != nil {
		return nil, err
	}
	defer closeSources()

	result := &ConversionResult{Format: FormatCue}
	if err := e.writeBin(binPath, tracks, sources, result); err != nil {
		return nil, err
	}
	if err := e.writeCue(cuePath, sheet); err != nil {
		return nil, err
	}
	result.Outputs = []string{binPath, cuePath}

	common.LogInfo(common.InfoConversionDone, result.Sectors, result.Bytes, binPath)
	return result, nil
}

// openSources opens the data file of every track, once per distinct path.
// The returned slice is parallel to tracks; closeAll releases every file
// that was opened, also when an error is returned.
func (e *CueBinEncoder) openSources(tracks []mds.Track, mdsPath string) (perTrack []Source, closeAll func(), err error) {
	opened := map[string]Source{}
	closeAll = func() {
		for _, src := range opened {
			src.Close()
		}
	}

	perTrack = make([]Source, len(tracks))
	for i := range tracks {
		path, err := trackDataPath(&tracks[i], mdsPath)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		if src, ok := opened[path]; ok {
			perTrack[i] = src
			continue
		}
		src, err := e.opener.OpenReader(path)
		if err != nil {
			closeAll()
			return nil, nil, common.FormatError(common.ErrFailedToOpenTrackData, err)
		}
		common.LogDebug(common.DebugTrackDataFile, i+1, path)
		opened[path] = src
		perTrack[i] = src
	}

	return perTrack, closeAll, nil
}

// writeBin concatenates the stripped sectors of all tracks into binPath
func (e *CueBinEncoder) writeBin(binPath string, tracks []mds.Track, sources []Source, result *ConversionResult) error {
	common.LogInfo(common.InfoWritingBin, binPath)
	out, err := e.creator.CreateWriter(binPath)
	if err != nil {
		return common.FormatError(common.ErrFailedToCreateOutput, err)
	}

	for i := range tracks {
		var sectors int64
		sectors, err = copyTrackSectors(out, sources[i], &tracks[i])
		result.Sectors += sectors
		result.Bytes += sectors * int64(tracks[i].SectorDataSize())
		if err != nil {
			err = fmt.Errorf("track %d: %w", i+1, err)
			break
		}
	}

	return closeOutput(out, binPath, err)
}

// writeCue writes sheet to cuePath
func (e *CueBinEncoder) writeCue(cuePath string, sheet *CueSheet) error {
	common.LogInfo(common.InfoWritingCue, cuePath)
	out, err := e.creator.CreateWriter(cuePath)
	if err != nil {
		return common.FormatError(common.ErrFailedToCreateOutput, err)
	}

	_, err = sheet.WriteTo(out)
	if err != nil {
		err = common.FormatError(common.ErrFailedToWriteCueSheet, err)
	}
	return closeOutput(out, cuePath, err)
}

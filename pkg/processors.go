package pkg

import (
	"fmt"
	"io"

	"github.com/hansbonini/mdstools/pkg/cdrom"
	"github.com/hansbonini/mdstools/pkg/common"
	"github.com/hansbonini/mdstools/pkg/mds"
)

// MDSProcessor loads MDS files and runs the info and convert operations on them
type MDSProcessor struct {
	loader    DiscLoader
	opener    ReadOpener
	creator   WriteCreator
	exporter  *DiscInfoExporter
	outputDir string
}

// NewMDSProcessor creates a processor working on the local file system.
// Converted images go next to the MDS file unless outputDir is set.
func NewMDSProcessor(outputDir string) *MDSProcessor {
	fs := NewFileSystem()
	return NewMDSProcessorWith(fs, fs, outputDir)
}

// NewMDSProcessorWith creates a processor using the given read and write capabilities
func NewMDSProcessorWith(opener ReadOpener, creator WriteCreator, outputDir string) *MDSProcessor {
	return &MDSProcessor{
		loader:    NewMDSDecoder(opener),
		opener:    opener,
		creator:   creator,
		exporter:  NewDiscInfoExporter(),
		outputDir: outputDir,
	}
}

// Info decodes the MDS file at mdsPath and writes its summary to w. Data
// tracks whose data file is readable are probed for an ISO 9660 volume.
func (p *MDSProcessor) Info(mdsPath string, format InfoFormat, w io.Writer) error {
	disc, err := p.loader.Load(mdsPath)
	if err != nil {
		return err
	}

	info := NewDiscInfo(disc, mdsPath)
	p.probeVolumes(disc, mdsPath, info)
	return p.exporter.Export(info, format, w)
}

// probeVolumes fills in TrackInfo.Volume. A track without a readable volume
// descriptor is not an error; it is only reported in verbose mode.
func (p *MDSProcessor) probeVolumes(disc *mds.Disc, mdsPath string, info *DiscInfo) {
	for i, session := range disc.Sessions() {
		for j, track := range session.DataTracks() {
			vd, err := p.readVolume(&track, mdsPath)
			if err != nil {
				common.LogDebug(common.DebugNoVolume, j+1, err)
				continue
			}
			common.LogDebug(common.DebugVolumeFound, j+1, vd.VolumeID, vd.VolumeSpaceSize)
			info.Sessions[i].Tracks[j].Volume = NewVolumeInfo(vd)
		}
	}
}

func (p *MDSProcessor) readVolume(track *mds.Track, mdsPath string) (*cdrom.VolumeDescriptor, error) {
	if _, err := cdrom.UserDataOffset(track.Mode, track.SectorDataSize()); err != nil {
		return nil, err
	}
	path, err := trackDataPath(track, mdsPath)
	if err != nil {
		return nil, err
	}
	src, err := p.opener.OpenReader(path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToOpenTrackData, err)
	}
	defer src.Close()

	return cdrom.ReadVolumeDescriptor(src, track)
}

// Encoder returns the encoder producing the given output format
func (p *MDSProcessor) Encoder(format OutputFormat) (DiscEncoder, error) {
	switch format {
	case FormatISO:
		return NewISOEncoder(p.opener, p.creator, p.outputDir), nil
	case FormatCue:
		return NewCueBinEncoder(p.opener, p.creator, p.outputDir), nil
	default:
		return nil, fmt.Errorf("%s: %s", common.ErrUnsupportedOutputFormat, format)
	}
}

// Convert decodes the MDS file at mdsPath and writes it in the given format
func (p *MDSProcessor) Convert(mdsPath string, format OutputFormat) (*ConversionResult, error) {
	encoder, err := p.Encoder(format)
	if err != nil {
		return nil, err
	}

	disc, err := p.loader.Load(mdsPath)
	if err != nil {
		return nil, err
	}

	return encoder.Encode(disc, mdsPath)
}

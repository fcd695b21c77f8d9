package pkg

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hansbonini/mdstools/pkg/cdrom"
	"github.com/hansbonini/mdstools/pkg/common"
	"github.com/hansbonini/mdstools/pkg/mds"
	"gopkg.in/yaml.v3"
)

// noDataFile is shown for tracks without a data file reference
const noDataFile = "--none--"

// DiscInfo is a printable summary of a decoded MDS file
type DiscInfo struct {
	File      string        `yaml:"file" json:"file"`
	FileSize  int           `yaml:"file_size" json:"file_size"`
	Version   string        `yaml:"version" json:"version"`
	MediaType string        `yaml:"media_type" json:"media_type"`
	Tracks    int           `yaml:"tracks" json:"tracks"`
	Sessions  []SessionInfo `yaml:"sessions" json:"sessions"`
}

// SessionInfo summarises one session
type SessionInfo struct {
	Number       int         `yaml:"number" json:"number"`
	FirstSector  int32       `yaml:"first_sector" json:"first_sector"`
	LastSector   int32       `yaml:"last_sector" json:"last_sector"`
	TotalSectors int64       `yaml:"total_sectors" json:"total_sectors"`
	StartTime    string      `yaml:"start_time" json:"start_time"`
	Tracks       []TrackInfo `yaml:"tracks" json:"tracks"`
}

// TrackInfo summarises one data track
type TrackInfo struct {
	Number       int    `yaml:"number" json:"number"`
	Point        uint8  `yaml:"point" json:"point"`
	Mode         string `yaml:"mode" json:"mode"`
	SubChannels  string `yaml:"subchannels" json:"subchannels"`
	DataFile     string `yaml:"data_file" json:"data_file"`
	Sectors      int64  `yaml:"sectors" json:"sectors"`
	SectorSize   uint16 `yaml:"sector_size" json:"sector_size"`
	TimeOffset   string `yaml:"time_offset" json:"time_offset"`
	StartMSF     string `yaml:"start_msf" json:"start_msf"`
	TrackOffset  uint64 `yaml:"track_offset" json:"track_offset"`
	SectorOffset int32  `yaml:"sector_offset" json:"sector_offset"`

	Volume *VolumeInfo `yaml:"volume,omitempty" json:"volume,omitempty"`
}

// VolumeInfo identifies the ISO 9660 volume stored in a data track
type VolumeInfo struct {
	VolumeID      string `yaml:"volume_id" json:"volume_id"`
	SystemID      string `yaml:"system_id,omitempty" json:"system_id,omitempty"`
	PublisherID   string `yaml:"publisher_id,omitempty" json:"publisher_id,omitempty"`
	ApplicationID string `yaml:"application_id,omitempty" json:"application_id,omitempty"`
	Blocks        uint32 `yaml:"blocks" json:"blocks"`
	BlockSize     uint16 `yaml:"block_size" json:"block_size"`
	Created       string `yaml:"created,omitempty" json:"created,omitempty"`
}

// NewVolumeInfo summarises a primary volume descriptor
func NewVolumeInfo(vd *cdrom.VolumeDescriptor) *VolumeInfo {
	return &VolumeInfo{
		VolumeID:      vd.VolumeID,
		SystemID:      vd.SystemID,
		PublisherID:   vd.PublisherID,
		ApplicationID: vd.ApplicationID,
		Blocks:        vd.VolumeSpaceSize,
		BlockSize:     vd.LogicalBlockSize,
		Created:       vd.Created,
	}
}

// NewDiscInfo builds the summary of disc, decoded from the MDS file at mdsPath
func NewDiscInfo(disc *mds.Disc, mdsPath string) *DiscInfo {
	info := &DiscInfo{
		File:      mdsPath,
		FileSize:  disc.ByteLen(),
		Version:   disc.Version().String(),
		MediaType: disc.MediaType().String(),
		Tracks:    disc.DataTrackCount(),
	}

	for i, session := range disc.Sessions() {
		si := SessionInfo{
			Number:       i + 1,
			FirstSector:  session.StartSector,
			LastSector:   session.EndSector,
			TotalSectors: session.TotalSectors(),
			StartTime:    session.StartTime().String(),
		}
		for j, track := range session.DataTracks() {
			dataFile, ok := track.DataFilename(mdsPath)
			if !ok {
				dataFile = noDataFile
			}
			si.Tracks = append(si.Tracks, TrackInfo{
				Number:       j + 1,
				Point:        track.Point,
				Mode:         track.ModeString(),
				SubChannels:  track.SubChannels.String(),
				DataFile:     dataFile,
				Sectors:      track.NumSectors(),
				SectorSize:   track.SectorSize,
				TimeOffset:   track.Timecode().String(),
				StartMSF:     common.LBAToMSF(track.StartSector),
				TrackOffset:  track.StartOffset,
				SectorOffset: track.StartSector,
			})
		}
		info.Sessions = append(info.Sessions, si)
	}

	return info
}

// InfoFormat selects how a DiscInfo is rendered
type InfoFormat string

// Supported info formats
const (
	InfoText InfoFormat = "text"
	InfoYAML InfoFormat = "yaml"
	InfoJSON InfoFormat = "json"
)

// DiscInfoExporter renders disc summaries
type DiscInfoExporter struct{}

// NewDiscInfoExporter creates a new exporter instance
func NewDiscInfoExporter() *DiscInfoExporter {
	return &DiscInfoExporter{}
}

// Export writes info to w in the requested format
func (e *DiscInfoExporter) Export(info *DiscInfo, format InfoFormat, w io.Writer) error {
	var err error
	switch InfoFormat(strings.ToLower(string(format))) {
	case InfoText, "":
		err = e.ExportText(info, w)
	case InfoYAML:
		err = e.ExportYAML(info, w)
	case InfoJSON:
		err = e.ExportJSON(info, w)
	default:
		return fmt.Errorf("%s: %q (valid formats are text, yaml, json)",
			common.ErrUnsupportedOutputFormat, format)
	}
	if err != nil {
		return common.FormatError(common.ErrFailedToExportInfo, err)
	}
	return nil
}

// ExportYAML writes info as a YAML document
func (e *DiscInfoExporter) ExportYAML(info *DiscInfo, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(info); err != nil {
		return err
	}
	return encoder.Close()
}

// ExportJSON writes info as indented JSON
func (e *DiscInfoExporter) ExportJSON(info *DiscInfo, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

// ExportText writes the human readable summary
func (e *DiscInfoExporter) ExportText(info *DiscInfo, w io.Writer) error {
	p := &textPrinter{w: w}

	p.printf("%s\n", info.File)
	p.printf("%s, %s, %s\n",
		common.CountOf(info.FileSize, "byte"),
		common.CountOf(len(info.Sessions), "session"),
		common.CountOf(info.Tracks, "track"))
	p.printf("Media type: %s, format version %s\n", info.MediaType, info.Version)

	for _, s := range info.Sessions {
		p.printf("Session %d\n", s.Number)
		p.printf("  First sector:    %-9d (0x%X)\n", s.FirstSector, uint32(s.FirstSector))
		p.printf("  Last sector:     %-9d (0x%X)\n", s.LastSector, uint32(s.LastSector))
		p.printf("  Total sectors:   %-9d (0x%X)\n", s.TotalSectors, s.TotalSectors)

		for _, t := range s.Tracks {
			p.printf("  Track %d\n", t.Number)
			p.printf("    Mode:          %s\n", t.Mode)
			p.printf("    Subchannels:   %s\n", t.SubChannels)
			p.printf("    Data file:     %s\n", t.DataFile)
			p.printf("    Sectors:       %-9d (0x%X)\n", t.Sectors, t.Sectors)
			p.printf("    Sector size:   %-9d (0x%X)\n", t.SectorSize, t.SectorSize)
			p.printf("    Time offset:   %s\n", t.TimeOffset)
			p.printf("    Start MSF:     %s\n", t.StartMSF)
			p.printf("    Track offset:  %-9d (0x%X)\n", t.TrackOffset, t.TrackOffset)
			p.printf("    Sector offset: %-9d (0x%X)\n", t.SectorOffset, uint32(t.SectorOffset))
			if v := t.Volume; v != nil {
				p.printf("    Volume ID:     %s\n", v.VolumeID)
				p.printf("    System ID:     %s\n", v.SystemID)
				p.printf("    Volume size:   %d blocks of %d bytes\n", v.Blocks, v.BlockSize)
			}
		}
	}

	return p.err
}

// textPrinter remembers the first write error so the caller checks only once
type textPrinter struct {
	w   io.Writer
	err error
}

func (p *textPrinter) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

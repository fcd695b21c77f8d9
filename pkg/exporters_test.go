// Package pkg provides tests for the disc information exporter
package pkg

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hansbonini/mdstools/pkg/mds/mdstest"
	"gopkg.in/yaml.v3"
)

func testDiscInfo(t *testing.T) *DiscInfo {
	t.Helper()
	img, _, _ := threeTrackImage()
	img.Sessions[0].Tracks[5].Filename = ""
	return NewDiscInfo(mustDecode(t, img), testMDS)
}

func TestNewDiscInfo(t *testing.T) {
	img, _, _ := threeTrackImage()
	img.Sessions[0].Tracks[5].Filename = ""
	data := img.Bytes()
	info := testDiscInfo(t)

	if info.File != testMDS || info.FileSize != len(data) {
		t.Errorf("file = %s (%d bytes), want %s (%d bytes)", info.File, info.FileSize, testMDS, len(data))
	}
	if info.Version != "1.3" || info.MediaType != "CD-ROM" {
		t.Errorf("version/media = %s/%s, want 1.3/CD-ROM", info.Version, info.MediaType)
	}
	if info.Tracks != 3 || len(info.Sessions) != 1 {
		t.Fatalf("tracks/sessions = %d/%d, want 3/1", info.Tracks, len(info.Sessions))
	}

	s := info.Sessions[0]
	if s.FirstSector != -150 || s.LastSector != 17 || s.TotalSectors != 167 || s.StartTime != "-00:02:00" {
		t.Errorf("session = %+v", s)
	}
	if len(s.Tracks) != 3 {
		t.Fatalf("len(Tracks) = %d, want 3 data tracks", len(s.Tracks))
	}

	first := s.Tracks[0]
	if first.Number != 1 || first.Mode != "Mode1" || first.SubChannels != "None" ||
		first.DataFile != filepath.Join("games", "disc.mdf") || first.Sectors != 10 || first.SectorSize != 0x930 {
		t.Errorf("first track = %+v", first)
	}

	second := s.Tracks[1]
	if second.Mode != "Audio" || second.SubChannels != "Eight" || second.TimeOffset != "00:02:10" ||
		second.TrackOffset != 10*0x930 || second.SectorOffset != 160 || second.StartMSF != "00:04:10" {
		t.Errorf("second track = %+v", second)
	}

	if s.Tracks[2].DataFile != "--none--" {
		t.Errorf("track without filename shows data file %q, want --none--", s.Tracks[2].DataFile)
	}
}

func TestDiscInfoExporter_ExportText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewDiscInfoExporter().ExportText(testDiscInfo(t), &buf); err != nil {
		t.Fatalf("ExportText() failed: %v", err)
	}
	output := buf.String()

	expected := []string{
		testMDS + "\n",
		"1 session, 3 tracks\n",
		"Media type: CD-ROM, format version 1.3\n",
		"Session 1\n",
		"  First sector:    -150      (0xFFFFFF6A)\n",
		"  Total sectors:   167       (0xA7)\n",
		"  Track 2\n",
		"    Mode:          Audio\n",
		"    Subchannels:   Eight\n",
		"    Sector size:   2448      (0x990)\n",
		"    Time offset:   00:02:10\n",
		"    Start MSF:     00:04:10\n",
		"    Data file:     --none--\n",
	}
	for _, line := range expected {
		if !strings.Contains(output, line) {
			t.Errorf("text output should contain %q, got:\n%s", line, output)
		}
	}
}

func TestDiscInfoExporter_ExportYAML(t *testing.T) {
	info := testDiscInfo(t)

	var buf bytes.Buffer
	if err := NewDiscInfoExporter().Export(info, InfoYAML, &buf); err != nil {
		t.Fatalf("Export(yaml) failed: %v", err)
	}

	var decoded DiscInfo
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}
	if decoded.Tracks != 3 || decoded.Sessions[0].Tracks[1].TimeOffset != "00:02:10" {
		t.Errorf("decoded YAML = %+v", decoded)
	}
	if !strings.Contains(buf.String(), "media_type: CD-ROM") {
		t.Errorf("YAML should use snake_case keys, got:\n%s", buf.String())
	}
}

func TestDiscInfoExporter_ExportJSON(t *testing.T) {
	info := testDiscInfo(t)

	var buf bytes.Buffer
	if err := NewDiscInfoExporter().Export(info, "JSON", &buf); err != nil {
		t.Fatalf("Export(JSON) failed: %v", err)
	}

	var decoded DiscInfo
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Sessions[0].FirstSector != -150 || decoded.Sessions[0].Tracks[2].DataFile != "--none--" {
		t.Errorf("decoded JSON = %+v", decoded)
	}
}

func TestDiscInfoExporter_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := NewDiscInfoExporter().Export(testDiscInfo(t), "xml", &buf)
	if err == nil || !strings.Contains(err.Error(), "unsupported output format") {
		t.Errorf("Export(xml) = %v, want unsupported output format", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written, got %q", buf.String())
	}
}

type failingWriter struct{}

var errWriteFailed = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWriteFailed
}

func TestDiscInfoExporter_WriteError(t *testing.T) {
	err := NewDiscInfoExporter().Export(testDiscInfo(t), InfoText, failingWriter{})
	if !errors.Is(err, errWriteFailed) {
		t.Errorf("Export() = %v, want the write error", err)
	}
}

func TestNewDiscInfo_EmptyDisc(t *testing.T) {
	info := NewDiscInfo(mustDecode(t, mdstest.Image{}), testMDS)

	var buf bytes.Buffer
	if err := NewDiscInfoExporter().ExportText(info, &buf); err != nil {
		t.Fatalf("ExportText() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "0 sessions, 0 tracks") {
		t.Errorf("text output = %q", buf.String())
	}
}

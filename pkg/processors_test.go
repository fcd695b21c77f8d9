// Package pkg provides tests for the MDS processor
package pkg

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hansbonini/mdstools/pkg/mds"
	"github.com/hansbonini/mdstools/pkg/mds/mdstest"
)

func TestMDSProcessor_Info(t *testing.T) {
	memfs := newMemFS()
	memfs.files[testMDS] = mdstest.SingleTrack(10).Bytes()

	var buf bytes.Buffer
	if err := NewMDSProcessorWith(memfs, memfs, "").Info(testMDS, InfoText, &buf); err != nil {
		t.Fatalf("Info() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "1 session, 1 track") {
		t.Errorf("Info() output = %q", buf.String())
	}
	if len(memfs.created) != 0 {
		t.Errorf("Info() should not create files, created %v", memfs.created)
	}
}

func TestMDSProcessor_Encoder(t *testing.T) {
	p := NewMDSProcessorWith(newMemFS(), newMemFS(), "")

	if e, err := p.Encoder(FormatISO); err != nil {
		t.Errorf("Encoder(iso) failed: %v", err)
	} else if _, ok := e.(*ISOEncoder); !ok {
		t.Errorf("Encoder(iso) = %T, want *ISOEncoder", e)
	}
	if e, err := p.Encoder(FormatCue); err != nil {
		t.Errorf("Encoder(cue) failed: %v", err)
	} else if _, ok := e.(*CueBinEncoder); !ok {
		t.Errorf("Encoder(cue) = %T, want *CueBinEncoder", e)
	}
	if _, err := p.Encoder(OutputFormat(9)); err == nil {
		t.Error("Encoder() should fail for an unknown format")
	}
}

func TestMDSProcessor_Convert(t *testing.T) {
	memfs := newMemFS()
	memfs.files[testMDS] = mdstest.SingleTrack(3).Bytes()
	memfs.files[testMDF] = mdstest.Sectors(3, 0x930, 0)

	p := NewMDSProcessorWith(memfs, memfs, "")
	for _, format := range []OutputFormat{FormatISO, FormatCue} {
		result, err := p.Convert(testMDS, format)
		if err != nil {
			t.Fatalf("Convert(%s) failed: %v", format, err)
		}
		if result.Format != format || result.Sectors != 3 {
			t.Errorf("Convert(%s) = %+v", format, result)
		}
	}

	expected := []string{testBin, testCue, testISO, testMDF, testMDS}
	if got := memfs.names(); strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Errorf("files = %v, want %v", got, expected)
	}
}

func TestMDSProcessor_Convert_DecodeError(t *testing.T) {
	memfs := newMemFS()
	memfs.files[testMDS] = []byte("not an mds file")

	_, err := NewMDSProcessorWith(memfs, memfs, "").Convert(testMDS, FormatISO)
	if !errors.Is(err, mds.ErrParse) {
		t.Errorf("Convert() = %v, want ErrParse", err)
	}
	if len(memfs.created) != 0 {
		t.Errorf("no output should be created, got %v", memfs.created)
	}
}

func TestMDSProcessor_LocalFileSystem(t *testing.T) {
	dir := t.TempDir()
	mdsPath := filepath.Join(dir, "disc.mds")
	outDir := filepath.Join(dir, "out", "nested")

	if err := os.WriteFile(mdsPath, subchannelTrack(4).Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "disc.mdf"), mdstest.Sectors(4, 0x990, 0x60), 0o600); err != nil {
		t.Fatal(err)
	}

	result, err := NewMDSProcessor(outDir).Convert(mdsPath, FormatCue)
	if err != nil {
		t.Fatalf("Convert() failed: %v", err)
	}

	bin, err := os.ReadFile(filepath.Join(outDir, "disc.bin"))
	if err != nil {
		t.Fatalf("BIN not written: %v", err)
	}
	if !bytes.Equal(bin, mdstest.Stripped(4, 0x990, 0x60)) {
		t.Errorf("BIN is %d bytes, want %d bytes of stripped sectors", len(bin), 4*0x930)
	}

	cue, err := os.ReadFile(filepath.Join(outDir, "disc.cue"))
	if err != nil {
		t.Fatalf("cue sheet not written: %v", err)
	}
	if !strings.HasPrefix(string(cue), "FILE \"disc.bin\" BINARY\n") {
		t.Errorf("cue sheet = %q", cue)
	}
	if result.Outputs[0] != filepath.Join(outDir, "disc.bin") {
		t.Errorf("Outputs = %v", result.Outputs)
	}
}

func TestMDSProcessor_Info_Volume(t *testing.T) {
	memfs := newMemFS()
	memfs.files[testMDS] = mdstest.SingleTrack(20).Bytes()
	memfs.files[testMDF] = mdstest.WithVolume(20, 0x930, 16, mdstest.PrimaryVolumeDescriptor("TOMBA", 20))

	var buf bytes.Buffer
	if err := NewMDSProcessorWith(memfs, memfs, "").Info(testMDS, InfoText, &buf); err != nil {
		t.Fatalf("Info() failed: %v", err)
	}
	for _, line := range []string{"    Volume ID:     TOMBA\n", "    Volume size:   20 blocks of 2048 bytes\n"} {
		if !strings.Contains(buf.String(), line) {
			t.Errorf("Info() output should contain %q, got:\n%s", line, buf.String())
		}
	}
	if memfs.open != 0 {
		t.Errorf("%d data files left open", memfs.open)
	}
}

func TestMDSProcessor_Info_UnreadableDataFile(t *testing.T) {
	memfs := newMemFS()
	memfs.files[testMDS] = mdstest.SingleTrack(20).Bytes()

	var buf bytes.Buffer
	if err := NewMDSProcessorWith(memfs, memfs, "").Info(testMDS, InfoText, &buf); err != nil {
		t.Fatalf("Info() should not fail without data file: %v", err)
	}
	if strings.Contains(buf.String(), "Volume ID") {
		t.Errorf("no volume should be reported, got:\n%s", buf.String())
	}
}

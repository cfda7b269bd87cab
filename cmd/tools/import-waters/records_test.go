package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fangindex/internal/core"
	"fangindex/internal/types"
)

const sampleJSON = `[
  {"id": "alster", "name": "Alster", "type": "river", "latitude": 53.57, "longitude": 10.0,
   "fish_species": ["Hecht", "zander", "Seeteufel"], "station_id": "HAMBURG-ST-PAULI"},
  {"name": "Stadtparksee", "type": "see", "latitude": 53.59, "longitude": 10.02, "permit_price": 12.5}
]`

const sampleYAML = `
- id: teich
  name: Dorfteich
  type: pond
  latitude: 53.4
  longitude: 9.8
  fish_species: [Karpfen, Schleie]
  is_assumed: true
`

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func compress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestLoadRecords_Formats(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		data  []byte
		count int
	}{
		{"json", "waters.json", []byte(sampleJSON), 2},
		{"yaml", "waters.yaml", []byte(sampleYAML), 1},
		{"yml", "waters.yml", []byte(sampleYAML), 1},
		{"zstd json", "waters.json.zst", compress(t, []byte(sampleJSON)), 2},
		{"zstd yaml", "waters.YAML.zst", compress(t, []byte(sampleYAML)), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := loadRecords(writeFile(t, tt.file, tt.data))
			require.NoError(t, err)
			assert.Len(t, records, tt.count)
		})
	}
}

func TestLoadRecords_Errors(t *testing.T) {
	t.Run("unknown extension", func(t *testing.T) {
		_, err := loadRecords(writeFile(t, "waters.csv", []byte("id,name")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file extension")
	})
	t.Run("unknown json field", func(t *testing.T) {
		_, err := loadRecords(writeFile(t, "waters.json", []byte(`[{"name":"x","depth":3}]`)))
		require.Error(t, err)
	})
	t.Run("unknown yaml field", func(t *testing.T) {
		_, err := loadRecords(writeFile(t, "waters.yaml", []byte("- name: x\n  depth: 3\n")))
		require.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := loadRecords(filepath.Join(t.TempDir(), "nope.json"))
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
	t.Run("empty yaml", func(t *testing.T) {
		records, err := loadRecords(writeFile(t, "waters.yaml", nil))
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func f64(v float64) *float64 { return &v }

func TestValidateRecords(t *testing.T) {
	v := core.NewValidator(nil)
	records := []waterRecord{
		{ID: "a", Name: "Alster", Type: "river", Latitude: f64(53.5), Longitude: f64(10)},
		{ID: "b", Name: "", Type: "ocean", Latitude: f64(95), Longitude: f64(10)},
		{ID: "c", Name: "No coordinate", Type: "lake"},
		{ID: "a", Name: "Alster again", Latitude: f64(53.5), Longitude: f64(10)},
		{Name: "Untyped", Latitude: f64(53.5), Longitude: f64(10), PermitPrice: f64(-1)},
	}

	errs := validateRecords(v, records)
	require.Len(t, errs, 4)

	var re *RecordError
	require.True(t, errors.As(errs[0], &re))
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, "required", re.Fields["name"])
	assert.Equal(t, "water_type", re.Fields["type"])
	assert.Equal(t, "lte=90", re.Fields["latitude"])

	require.True(t, errors.As(errs[1], &re))
	assert.Equal(t, "required", re.Fields["latitude"])
	assert.Equal(t, "required", re.Fields["longitude"])

	require.True(t, errors.As(errs[2], &re))
	assert.Equal(t, 3, re.Index)
	assert.Contains(t, re.Error(), "duplicate id")

	require.True(t, errors.As(errs[3], &re))
	assert.Equal(t, "gte=0", re.Fields["permit_price"])
}

func TestToCandidate(t *testing.T) {
	c := toCandidate(waterRecord{
		Name:        " Alster ",
		Type:        "Fluss",
		Latitude:    f64(53.57),
		Longitude:   f64(10),
		FishSpecies: []string{"Hecht", "Seeteufel"},
		StationID:   " HAMBURG ",
	})

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Alster", c.Name)
	assert.Equal(t, types.WaterTypeRiver, c.Type)
	assert.Equal(t, "HAMBURG", c.StationID)
	assert.Equal(t, []types.Species{types.SpeciesPike}, c.FishSpecies)
	assert.Equal(t, []string{"Seeteufel"}, c.RawFishSpecies)

	other := toCandidate(waterRecord{Name: "x", Latitude: f64(0), Longitude: f64(0)})
	assert.NotEqual(t, c.ID, other.ID)
	assert.Equal(t, types.WaterTypeUnknown, other.Type)
}

type fakeStore struct {
	written []types.WaterBodyCandidate
	failID  string
}

func (f *fakeStore) Upsert(_ context.Context, c types.WaterBodyCandidate) error {
	if c.ID == f.failID {
		return types.NewAppError(types.ErrCodeInternalDB, "boom", nil)
	}
	f.written = append(f.written, c)
	return nil
}

func TestImportCandidates(t *testing.T) {
	candidates := []types.WaterBodyCandidate{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	t.Run("all written", func(t *testing.T) {
		store := &fakeStore{}
		n, err := importCandidates(context.Background(), store, candidates, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Len(t, store.written, 3)
	})

	t.Run("stops at failure", func(t *testing.T) {
		store := &fakeStore{failID: "b"}
		n, err := importCandidates(context.Background(), store, candidates, discardLogger())
		assert.True(t, types.HasCode(err, types.ErrCodeInternalDB))
		assert.Equal(t, 1, n)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		n, err := importCandidates(ctx, &fakeStore{}, candidates, discardLogger())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, n)
	})
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := runCmd(t, "validate", writeFile(t, "waters.json", []byte(sampleJSON)))
	require.NoError(t, err)
	assert.Contains(t, out, "2 records valid")

	bad := `[{"name": "", "latitude": 53, "longitude": 10}]`
	out, err = runCmd(t, "validate", writeFile(t, "bad.json", []byte(bad)))
	require.Error(t, err)
	assert.Contains(t, out, "record 0")
	assert.True(t, strings.Contains(err.Error(), "1 of 1 records invalid"))
}

func TestImportCommand_DryRun(t *testing.T) {
	out, err := runCmd(t, "import", "--dry-run", writeFile(t, "waters.yaml", []byte(sampleYAML)))
	require.NoError(t, err)
	assert.Contains(t, out, "dry run: 1 records would be imported")
}

func TestImportCommand_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Chdir(t.TempDir())
	_, err := runCmd(t, "import", writeFile(t, "waters.yaml", []byte(sampleYAML)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestImportCommand_SkipInvalidDryRun(t *testing.T) {
	data := `[
  {"name": "Alster", "latitude": 53.57, "longitude": 10.0},
  {"name": "", "latitude": 53.5, "longitude": 10.0},
  {"name": "Dorfteich", "type": "teich", "latitude": 53.4, "longitude": 9.8}
]`
	path := writeFile(t, "mixed.json", []byte(data))

	_, err := runCmd(t, "import", "--dry-run", path)
	require.Error(t, err)

	out, err := runCmd(t, "import", "--dry-run", "--skip-invalid", path)
	require.NoError(t, err)
	assert.Contains(t, out, "record 1")
	assert.Contains(t, out, "dry run: 2 records would be imported")
}

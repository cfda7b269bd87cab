package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"fangindex/internal/core"
	"fangindex/internal/types"
)

// waterRecord is one entry of an import file.
type waterRecord struct {
	ID          string   `json:"id" yaml:"id" validate:"omitempty,max=64"`
	Name        string   `json:"name" yaml:"name" validate:"required,max=200"`
	Type        string   `json:"type" yaml:"type" validate:"water_type"`
	Latitude    *float64 `json:"latitude" yaml:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" yaml:"longitude" validate:"required,gte=-180,lte=180"`
	Region      string   `json:"region" yaml:"region" validate:"max=200"`
	FishSpecies []string `json:"fish_species" yaml:"fish_species" validate:"max=50"`
	PermitPrice *float64 `json:"permit_price" yaml:"permit_price" validate:"omitempty,gte=0"`
	IsAssumed   bool     `json:"is_assumed" yaml:"is_assumed"`
	StationID   string   `json:"station_id" yaml:"station_id" validate:"max=64"`
}

// RecordError reports an invalid record by its position in the file.
type RecordError struct {
	Index  int
	Name   string
	Fields map[string]any
	Err    error
}

func (e *RecordError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("record %d (%q): %v", e.Index, e.Name, e.Fields)
	}
	return fmt.Sprintf("record %d (%q): %v", e.Index, e.Name, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// loadRecords reads a JSON or YAML array of records. A trailing .zst on the
// file name means the content is zstd compressed.
func loadRecords(path string) ([]waterRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer dec.Close()
		r = dec
		name = strings.TrimSuffix(name, ".zst")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return decodeRecords(data, filepath.Ext(name))
}

func decodeRecords(data []byte, ext string) ([]waterRecord, error) {
	var records []waterRecord
	switch ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decoding JSON: %w", err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&records); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported file extension %q (want .json, .yaml or .yml, optionally .zst)", ext)
	}
	return records, nil
}

// validateRecords checks every record and returns one error per invalid
// record. Duplicate ids are rejected as well.
func validateRecords(v *core.Validator, records []waterRecord) []error {
	var errs []error
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		if err := v.ValidateStruct(rec); err != nil {
			re := &RecordError{Index: i, Name: rec.Name, Err: err}
			var appErr *types.AppError
			if errors.As(err, &appErr) {
				if fields, ok := appErr.Details["fields"].(map[string]any); ok {
					re.Fields = fields
				}
			}
			errs = append(errs, re)
			continue
		}
		if rec.ID == "" {
			continue
		}
		if first, dup := seen[rec.ID]; dup {
			errs = append(errs, &RecordError{Index: i, Name: rec.Name, Err: fmt.Errorf("duplicate id %q (first at record %d)", rec.ID, first)})
			continue
		}
		seen[rec.ID] = i
	}
	return errs
}

// toCandidate converts a validated record. Records without an id get a
// random one.
func toCandidate(rec waterRecord) types.WaterBodyCandidate {
	c := types.WaterBodyCandidate{
		ID:          rec.ID,
		Name:        strings.TrimSpace(rec.Name),
		Type:        types.ParseWaterType(rec.Type),
		Latitude:    *rec.Latitude,
		Longitude:   *rec.Longitude,
		Region:      rec.Region,
		PermitPrice: rec.PermitPrice,
		IsAssumed:   rec.IsAssumed,
		StationID:   strings.TrimSpace(rec.StationID),
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.FishSpecies, c.RawFishSpecies = types.ParseSpeciesList(rec.FishSpecies)
	return c
}

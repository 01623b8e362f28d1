// Package gedmatch parses GEDmatch segment export files into import DTOs.
// Files are recognized by their header columns rather than their names, so
// exports can be renamed freely; extra columns and arbitrary column order
// are tolerated.
package gedmatch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/kinship/internal/ports/primary"
)

// Kind identifies which GEDmatch export a CSV file is.
type Kind int

const (
	KindUnknown Kind = iota
	KindMatches
	KindTriangles
)

// Match export columns.
const (
	colPrimaryKit   = "PrimaryKit"
	colMatchedKit   = "MatchedKit"
	colMatchChr     = "chr"
	colMatchStart   = "B37Start"
	colMatchEnd     = "B37End"
	colSegmentCM    = "Segment cM"
	colMatchedName  = "MatchedName"
	colMatchedSex   = "Matched Sex"
	colMatchedEmail = "MatchedEmail"
)

var matchColumns = []string{
	colPrimaryKit, colMatchedKit, colMatchChr, colMatchStart, colMatchEnd,
	colSegmentCM, colMatchedName, colMatchedSex, colMatchedEmail,
}

// Detect reads the header row of a CSV file and reports which GEDmatch
// export it is.
func Detect(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return KindUnknown, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	if _, err := headerIndex(header, matchColumns); err == nil {
		return KindMatches, nil
	}
	if _, err := headerIndex(header, triangleColumns); err == nil {
		return KindTriangles, nil
	}
	return KindUnknown, nil
}

// ParseMatches parses a GEDmatch pairwise match export.
func ParseMatches(r io.Reader) ([]primary.MatchImport, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read match file header: %w", err)
	}
	idx, err := headerIndex(header, matchColumns)
	if err != nil {
		return nil, err
	}

	var out []primary.MatchImport
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read match file: %w", err)
		}

		startBP, err := parseBP(row[idx[colMatchStart]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad %s: %w", line, colMatchStart, err)
		}
		endBP, err := parseBP(row[idx[colMatchEnd]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad %s: %w", line, colMatchEnd, err)
		}
		lengthCM, err := parseCM(row[idx[colSegmentCM]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad %s: %w", line, colSegmentCM, err)
		}

		out = append(out, primary.MatchImport{
			Kit1:         field(row, idx, colPrimaryKit),
			Kit2:         field(row, idx, colMatchedKit),
			Chromosome:   field(row, idx, colMatchChr),
			StartBP:      startBP,
			EndBP:        endBP,
			LengthCM:     lengthCM,
			MatchedName:  field(row, idx, colMatchedName),
			MatchedEmail: field(row, idx, colMatchedEmail),
			MatchedSex:   field(row, idx, colMatchedSex),
		})
	}
	return out, nil
}

// headerIndex maps the required columns to their positions, failing when any
// is missing.
func headerIndex(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return idx, nil
}

func field(row []string, idx map[string]int, name string) string {
	return strings.TrimSpace(row[idx[name]])
}

func parseBP(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parseCM(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

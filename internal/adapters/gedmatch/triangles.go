package gedmatch

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/example/kinship/internal/ports/primary"
)

// Triangle export columns. The exporting kit itself does not appear in the
// file; the caller supplies it as the source kit.
const (
	colKit1Number = "Kit1 Number"
	colKit1Name   = "Kit1 Name"
	colKit1Email  = "Kit1 Email"
	colKit2Number = "Kit2 Number"
	colKit2Name   = "Kit2 Name"
	colKit2Email  = "Kit2 Email"
	colTriChr     = "Chr"
	colTriStart   = "B37 Start"
	colTriEnd     = "B37 End"
	colTriCM      = "cM"
)

var triangleColumns = []string{
	colKit1Number, colKit1Name, colKit1Email,
	colKit2Number, colKit2Name, colKit2Email,
	colTriChr, colTriStart, colTriEnd, colTriCM,
}

// ParseTriangles parses a GEDmatch triangulation export. sourceKit is the
// kit the file was exported for; it completes each row's triple.
func ParseTriangles(r io.Reader, sourceKit string) ([]primary.TriangleImport, error) {
	if sourceKit == "" {
		return nil, fmt.Errorf("triangulation files need a source kit")
	}

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read triangle file header: %w", err)
	}
	idx, err := headerIndex(header, triangleColumns)
	if err != nil {
		return nil, err
	}

	var out []primary.TriangleImport
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read triangle file: %w", err)
		}

		startBP, err := parseBP(row[idx[colTriStart]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad %s: %w", line, colTriStart, err)
		}
		endBP, err := parseBP(row[idx[colTriEnd]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad %s: %w", line, colTriEnd, err)
		}
		lengthCM, err := parseCM(row[idx[colTriCM]])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad %s: %w", line, colTriCM, err)
		}

		out = append(out, primary.TriangleImport{
			Kit1:       sourceKit,
			Kit2:       field(row, idx, colKit1Number),
			Kit3:       field(row, idx, colKit2Number),
			Chromosome: field(row, idx, colTriChr),
			StartBP:    startBP,
			EndBP:      endBP,
			LengthCM:   lengthCM,
			Kit2Name:   field(row, idx, colKit1Name),
			Kit2Email:  field(row, idx, colKit1Email),
			Kit3Name:   field(row, idx, colKit2Name),
			Kit3Email:  field(row, idx, colKit2Email),
		})
	}
	return out, nil
}

package gedmatch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const matchCSV = `PrimaryKit,MatchedKit,chr,B37Start,B37End,Segment cM,MatchedName,Matched Sex,MatchedEmail
A100,B200,1,100,200,10.5,Bea,F,bea@example.com
A100,C300,2,500,900,7.25,,,
`

const triangleCSV = `Kit1 Number,Kit1 Name,Kit1 Email,Kit2 Number,Kit2 Name,Kit2 Email,Chr,B37 Start,B37 End,cM
B200,Bea,bea@example.com,C300,Cal,cal@example.com,1,150,180,4.2
`

func TestParseMatches(t *testing.T) {
	rows, err := ParseMatches(strings.NewReader(matchCSV))
	if err != nil {
		t.Fatalf("ParseMatches failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Kit1 != "A100" || first.Kit2 != "B200" || first.Chromosome != "1" {
		t.Errorf("unexpected kits/chromosome: %+v", first)
	}
	if first.StartBP != 100 || first.EndBP != 200 || first.LengthCM != 10.5 {
		t.Errorf("unexpected coordinates: %+v", first)
	}
	if first.MatchedName != "Bea" || first.MatchedSex != "F" || first.MatchedEmail != "bea@example.com" {
		t.Errorf("unexpected details: %+v", first)
	}

	// Empty detail fields are fine.
	second := rows[1]
	if second.MatchedName != "" || second.MatchedEmail != "" {
		t.Errorf("expected empty details: %+v", second)
	}
}

func TestParseMatchesReordersColumns(t *testing.T) {
	shuffled := `MatchedKit,Extra,PrimaryKit,Segment cM,chr,B37End,B37Start,MatchedEmail,Matched Sex,MatchedName
B200,x,A100,10.5,1,200,100,,,`
	rows, err := ParseMatches(strings.NewReader(shuffled))
	if err != nil {
		t.Fatalf("ParseMatches failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Kit1 != "A100" || r.Kit2 != "B200" || r.StartBP != 100 || r.EndBP != 200 || r.LengthCM != 10.5 {
		t.Errorf("column reordering mishandled: %+v", r)
	}
}

func TestParseMatchesRejectsMissingColumn(t *testing.T) {
	if _, err := ParseMatches(strings.NewReader("PrimaryKit,MatchedKit\nA,B\n")); err == nil {
		t.Error("expected error for missing columns, got nil")
	}
}

func TestParseMatchesRejectsBadNumbers(t *testing.T) {
	bad := `PrimaryKit,MatchedKit,chr,B37Start,B37End,Segment cM,MatchedName,Matched Sex,MatchedEmail
A100,B200,1,xyz,200,10.5,,,`
	if _, err := ParseMatches(strings.NewReader(bad)); err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line-numbered parse error, got %v", err)
	}
}

func TestParseTriangles(t *testing.T) {
	rows, err := ParseTriangles(strings.NewReader(triangleCSV), "A100")
	if err != nil {
		t.Fatalf("ParseTriangles failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	r := rows[0]
	if r.Kit1 != "A100" || r.Kit2 != "B200" || r.Kit3 != "C300" {
		t.Errorf("unexpected triple: %+v", r)
	}
	if r.Chromosome != "1" || r.StartBP != 150 || r.EndBP != 180 || r.LengthCM != 4.2 {
		t.Errorf("unexpected coordinates: %+v", r)
	}
	if r.Kit2Name != "Bea" || r.Kit3Name != "Cal" || r.Kit3Email != "cal@example.com" {
		t.Errorf("unexpected details: %+v", r)
	}
}

func TestParseTrianglesRequiresSourceKit(t *testing.T) {
	if _, err := ParseTriangles(strings.NewReader(triangleCSV), ""); err == nil {
		t.Error("expected error for missing source kit, got nil")
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		return path
	}

	tests := []struct {
		name string
		path string
		want Kind
	}{
		{"matches", write("m.csv", matchCSV), KindMatches},
		{"triangles", write("t.csv", triangleCSV), KindTriangles},
		{"unknown", write("u.csv", "a,b,c\n1,2,3\n"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := Detect(tt.path)
			if err != nil {
				t.Fatalf("Detect failed: %v", err)
			}
			if kind != tt.want {
				t.Errorf("Detect = %v, want %v", kind, tt.want)
			}
		})
	}
}

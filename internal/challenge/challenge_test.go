package challenge

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestParse(t *testing.T) {
	input := `# header comment
20, 455459

not a challenge line
abc, 12345
30, 1073676287
64, 18446744073709551557
20, -5
`
	got, err := Parse(strings.NewReader(input), zap.NewNop())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("parsed %d challenges, want 3", len(got))
	}

	if got[0].Bits != 20 || got[0].N.Cmp(big.NewInt(455459)) != 0 {
		t.Errorf("challenge 0 = %+v", got[0])
	}
	if got[1].Bits != 30 || got[1].N.Cmp(big.NewInt(1073676287)) != 0 {
		t.Errorf("challenge 1 = %+v", got[1])
	}
	want, _ := new(big.Int).SetString("18446744073709551557", 10)
	if got[2].Bits != 64 || got[2].N.Cmp(want) != 0 {
		t.Errorf("challenge 2 = %+v", got[2])
	}
}

func TestParseEmpty(t *testing.T) {
	got, err := Parse(strings.NewReader("# only comments\n\n"), zap.NewNop())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("parsed %d challenges from an empty file", len(got))
	}
}

func TestWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	records := []Result{
		{Bits: 20, N: "455459", Method: "ecm", Factor: "613", Found: true, ElapsedSeconds: 0.25},
		{Bits: 20, N: "455459", Method: "rho", Found: false, Error: "factor: no non-trivial factor found"},
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		var got Result
		if err := json.Unmarshal([]byte(line), &got); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if got != records[i] {
			t.Errorf("line %d = %+v, want %+v", i, got, records[i])
		}
	}
}

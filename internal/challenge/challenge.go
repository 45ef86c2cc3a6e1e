// Package challenge reads factorization challenge files and records
// per-method results.
//
// A challenge file holds one "bits, number" pair per line, in decimal.
// Blank lines and lines starting with # are ignored; malformed lines are
// skipped with a warning instead of aborting the run.
package challenge

import (
	"bufio"
	"encoding/json"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Challenge is one number to factor, tagged with its advertised bit size.
type Challenge struct {
	Bits int
	N    *big.Int
}

// Parse reads challenges from r, skipping comments and malformed lines.
func Parse(r io.Reader, logger *zap.Logger) ([]Challenge, error) {
	scanner := bufio.NewScanner(r)
	// Numbers of a few thousand bits still fit on one line.
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var out []Challenge
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, ",", 2)
		if len(parts) != 2 {
			logger.Warn("skipping malformed challenge line",
				zap.Int("line", lineno), zap.String("text", line))
			continue
		}
		bits, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			logger.Warn("skipping challenge line with bad bit size",
				zap.Int("line", lineno), zap.Error(err))
			continue
		}
		n, ok := new(big.Int).SetString(strings.TrimSpace(parts[1]), 10)
		if !ok || n.Sign() <= 0 {
			logger.Warn("skipping challenge line with bad number",
				zap.Int("line", lineno), zap.String("text", line))
			continue
		}

		out = append(out, Challenge{Bits: bits, N: n})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading challenge file")
	}
	return out, nil
}

// ReadFile parses the challenge file at path.
func ReadFile(path string, logger *zap.Logger) ([]Challenge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening challenge file %s", path)
	}
	defer f.Close()
	return Parse(f, logger)
}

// Result records one method's outcome on one challenge.
type Result struct {
	Bits           int     `json:"bits"`
	N              string  `json:"n"`
	Method         string  `json:"method"`
	Factor         string  `json:"factor,omitempty"`
	Found          bool    `json:"found"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Error          string  `json:"error,omitempty"`
}

// Writer emits one JSON line per result. It is safe for concurrent use,
// so racing method goroutines can report directly.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write appends one result record.
func (wr *Writer) Write(res Result) error {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	return errors.Wrap(wr.enc.Encode(res), "writing result record")
}

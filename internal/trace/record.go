package trace

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Record kinds.
const (
	KindRun      = "run"
	KindTick     = "tick"
	KindEngage   = "engage"
	KindClear    = "clear"
	KindFlocking = "flocking"
)

// Record is one trace line. Fields not used by a kind are omitted.
type Record struct {
	Kind      string `json:"kind"`
	Tick      uint64 `json:"tick"`
	Run       string `json:"run,omitempty"`
	Scenario  string `json:"scenario,omitempty"`
	Units     int    `json:"units,omitempty"`
	Active    int    `json:"active,omitempty"`
	Blocked   int    `json:"blocked,omitempty"`
	Attacking int    `json:"attacking,omitempty"`
	Digest    string `json:"digest,omitempty"`
	Attacker  uint64 `json:"attacker,omitempty"`
	Target    uint64 `json:"target,omitempty"`
	Faction   int32  `json:"faction,omitempty"`
	Unit      uint64 `json:"unit,omitempty"`
	Disabled  bool   `json:"disabled,omitempty"`
}

// DigestString renders a state digest the way traces store it.
func DigestString(d [32]byte) string { return hex.EncodeToString(d[:]) }

// Read decodes the trace at path and calls fn for every record in order.
// It stops at the first error fn returns.
func Read(path string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			return fmt.Errorf("trace line %d: %w", line, err)
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan trace: %w", err)
	}
	return nil
}

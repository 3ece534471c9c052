// Command phalanx-trace prints a summary of a recorded run, or every record
// with -v.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/l1jgo/phalanx/internal/trace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		verbose = flag.Bool("v", false, "print every record")
		upTo    = flag.Uint64("tick", 0, "stop after this tick (0 = whole trace)")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		return errors.New("usage: phalanx-trace [-v] [-tick N] <file.jsonl.zst>")
	}

	var s trace.Summary
	errStop := errors.New("stop")
	err := trace.Read(flag.Arg(0), func(r trace.Record) error {
		if *upTo > 0 && r.Tick > *upTo {
			return errStop
		}
		s.Add(r)
		if *verbose {
			printRecord(r)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return err
	}

	fmt.Printf("run       %s (%s)\n", s.Run, s.Scenario)
	fmt.Printf("ticks     %d\n", s.Ticks)
	fmt.Printf("units     %d\n", s.Units)
	fmt.Printf("engaged   %d started, %d cleared, peak %d attacking\n", s.Engagements, s.Cleared, s.PeakAttacking)
	fmt.Printf("flocking  %d disabled, %d enabled\n", s.FlockingOff, s.FlockingOn)
	fmt.Printf("digest    %s\n", s.Digest)
	return nil
}

func printRecord(r trace.Record) {
	switch r.Kind {
	case trace.KindTick:
		fmt.Printf("%6d tick     units=%d active=%d blocked=%d attacking=%d\n", r.Tick, r.Units, r.Active, r.Blocked, r.Attacking)
	case trace.KindEngage:
		fmt.Printf("%6d engage   %d -> %d (faction %d)\n", r.Tick, r.Attacker, r.Target, r.Faction)
	case trace.KindClear:
		fmt.Printf("%6d clear    %d -> %d\n", r.Tick, r.Attacker, r.Target)
	case trace.KindFlocking:
		fmt.Printf("%6d flocking unit=%d disabled=%t\n", r.Tick, r.Unit, r.Disabled)
	}
}

// Command shtp-trace prints a CBOR frame trace recorded by shtp-monitor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/banshee-data/sensorhub/internal/shtp"
	"github.com/banshee-data/sensorhub/internal/trace"
	"github.com/banshee-data/sensorhub/internal/version"
)

var (
	channel     = flag.Int("channel", -1, "Only show frames on this channel (0-5)")
	session     = flag.String("session", "", "Only show frames from this session ID")
	showData    = flag.Bool("data", false, "Print frame bytes")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <trace-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("shtp-trace"))
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	filter, err := buildFilter(*channel, *session)
	if err != nil {
		log.Fatal(err)
	}

	r, err := trace.NewFilteredReader(flag.Arg(0), filter)
	if err != nil {
		log.Fatalf("failed to open trace: %v", err)
	}
	defer r.Close()

	if err := printTrace(os.Stdout, r, *showData); err != nil {
		log.Fatalf("failed to read trace: %v", err)
	}
}

func buildFilter(ch int, sessionID string) (trace.Filter, error) {
	f := trace.Filter{SessionID: sessionID}
	if ch >= 0 {
		c := shtp.Channel(ch)
		if ch > 0xFF || !c.Valid() {
			return f, fmt.Errorf("invalid channel %d", ch)
		}
		f.Channel = &c
	}
	return f, nil
}

type eventSource interface {
	Next() (trace.Event, error)
}

// printTrace writes one line per event. Inbound frames are replayed through
// shtp.Route against a scratch state, one per session, to recover what the
// driver made of them.
func printTrace(w io.Writer, src eventSource, withData bool) error {
	states := make(map[string]*shtp.DeviceState)
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		disp := "-"
		if ev.Direction == trace.DirectionIn {
			st, ok := states[ev.SessionID]
			if !ok {
				st = &shtp.DeviceState{}
				states[ev.SessionID] = st
			}
			disp = replay(st, ev)
		}

		fmt.Fprintf(w, "%s %-3s %-14s seq=%-3d len=%-4d %s",
			ev.Timestamp.UTC().Format(time.RFC3339Nano), ev.Direction, ev.Channel, ev.Sequence, ev.Length, disp)
		if withData {
			fmt.Fprintf(w, " % x", ev.Data)
		}
		fmt.Fprintln(w)
	}
}

func replay(st *shtp.DeviceState, ev trace.Event) string {
	f, err := ev.Frame()
	if err != nil {
		return "corrupt"
	}
	d, err := shtp.Route(st, f)
	if err != nil {
		return "corrupt"
	}
	return d.String()
}

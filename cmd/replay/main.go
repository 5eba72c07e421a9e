package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Versifine/atrium/internal/logger"
	"github.com/Versifine/atrium/internal/protocol"
	"github.com/Versifine/atrium/internal/recorder"
	"github.com/Versifine/atrium/internal/session"
	"github.com/Versifine/atrium/internal/world"
)

func main() {
	var (
		file   = flag.String("file", "", "recording to replay (.jsonl.zst)")
		dir    = flag.String("dir", "", "replay every recording in dir instead of -file")
		prefix = flag.String("prefix", "session", "recording file prefix used with -dir")
		blend  = flag.Float64("blend", world.DefaultBlendFactor, "remote avatar blend factor per update")
		level  = flag.String("log", "warn", "log level")
	)
	flag.Parse()

	logger.Init(logger.Config{Level: *level, Format: "console", Output: os.Stderr})

	var files []string
	switch {
	case *file != "":
		files = []string{*file}
	case *dir != "":
		var err error
		files, err = recorder.ListFiles(*dir, *prefix)
		if err != nil {
			fmt.Fprintln(os.Stderr, "list recordings:", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "missing -file or -dir")
		os.Exit(2)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no recordings found in", *dir)
		os.Exit(1)
	}

	reg := world.NewRegistry(*blend, nil)
	mb := session.NewMailbox()
	var frames, skipped int
	for _, path := range files {
		err := recorder.ReadFile(path, func(e recorder.Entry) error {
			msg, err := protocol.DecodePayload(e.Type, e.Data)
			if err != nil {
				skipped++
				slog.Debug("Skipped recorded frame", "at", e.At, "error", err)
				return nil
			}
			frames++
			// Each recorded frame is one tick so smoothing matches the live
			// per-update rate.
			mb.Deliver(msg)
			mb.Drain(reg)
			return nil
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}

	fmt.Printf("replay ok: files=%d frames=%d skipped=%d self=%q reported=%d\n",
		len(files), frames, skipped, reg.SelfID(), reg.ReportedCount())
	for _, a := range reg.Snapshot() {
		fmt.Printf("  %-12s displayed=(%.3f, %.3f, %.3f) last=(%.3f, %.3f, %.3f) updates=%d\n",
			a.ID,
			a.Displayed.X(), a.Displayed.Y(), a.Displayed.Z(),
			a.LastKnown.X(), a.LastKnown.Y(), a.LastKnown.Z(),
			a.Updates)
	}
}

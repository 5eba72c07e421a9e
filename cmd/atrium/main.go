package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/atrium/internal/animation"
	"github.com/Versifine/atrium/internal/camera"
	"github.com/Versifine/atrium/internal/character"
	"github.com/Versifine/atrium/internal/client"
	"github.com/Versifine/atrium/internal/config"
	"github.com/Versifine/atrium/internal/debug"
	"github.com/Versifine/atrium/internal/event"
	"github.com/Versifine/atrium/internal/logger"
	"github.com/Versifine/atrium/internal/physics"
	"github.com/Versifine/atrium/internal/recorder"
	"github.com/Versifine/atrium/internal/scene"
	"github.com/Versifine/atrium/internal/session"
	"github.com/Versifine/atrium/internal/world"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	var logOut io.Writer = os.Stderr
	if cfg.Logging.File != "" {
		f, err := logger.OpenFile(cfg.Logging.File)
		if err != nil {
			slog.Error("Failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: logOut,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Atrium stopped", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := event.NewBus()
	subscribeLogging(bus)

	registry := world.NewRegistry(cfg.Remote.BlendFactor, nil)
	registry.SetBus(bus)
	mailbox := session.NewMailbox()

	var rec client.Recorder
	if cfg.Record.Enabled {
		w := recorder.NewWriter(cfg.Record.Dir, cfg.Record.Prefix)
		defer w.Close()
		rec = w
	}

	cl := client.New(client.Config{
		URL:              cfg.Server.URL,
		HandshakeTimeout: cfg.Server.HandshakeTimeout,
	}, mailbox, bus, rec)
	go func() {
		if err := cl.Start(ctx); err != nil {
			slog.Error("Connection failed", "url", cfg.Server.URL, "error", err)
		}
	}()

	spawn := physics.Vec3(cfg.Character.Spawn)
	host := scene.NewHost(scene.Options{
		Orbit: camera.NewOrbit(camera.Config{
			Target:      spawn,
			Yaw:         cfg.Camera.Yaw,
			Pitch:       cfg.Camera.Pitch,
			Distance:    cfg.Camera.Distance,
			MinDistance: cfg.Camera.MinDistance,
			MaxDistance: cfg.Camera.MaxDistance,
		}),
		Registry: registry,
		Mailbox:  mailbox,
		Sender:   cl,
		SendRate: cfg.Network.SendRate,
	})

	ctrl, blender, err := loadCharacter(cfg, spawn)
	if err != nil {
		return err
	}
	ctrl.SetBus(bus)
	host.Enqueue(func() { host.Attach(ctrl, blender) })

	console := debug.NewConsole(host, debug.Options{
		TickInterval: cfg.Console.TickInterval,
		MovePulse:    cfg.Console.MovePulse,
		Net:          cl,
	})
	return console.Start(ctx)
}

func loadCharacter(cfg *config.Config, spawn physics.Vec3) (*character.Controller, *animation.Blender, error) {
	ch := cfg.Character
	blender, err := animation.NewBlender(ch.Clips, ch.InitialClip, ch.ExcludeClips...)
	if err != nil {
		return nil, nil, err
	}
	initial, ok := character.ParseAction(ch.InitialClip)
	if !ok {
		slog.Warn("Initial clip is not an action, starting idle", "clip", ch.InitialClip)
		if _, err := blender.Play(initial.String(), 0); err != nil {
			return nil, nil, err
		}
	}
	ctrl := character.New(spawn, initial, ch.RunToggle, blender, character.Params{
		WalkSpeed:    ch.WalkSpeed,
		RunSpeed:     ch.RunSpeed,
		FadeDuration: ch.FadeDuration,
		TurnRate:     ch.TurnRate,
		MaxTickDelta: ch.MaxTickDelta,
	})
	return ctrl, blender, nil
}

func subscribeLogging(bus *event.Bus) {
	bus.Subscribe(event.EventParticipantJoined, func(evt event.Event) {
		e := evt.(event.ParticipantEvent)
		slog.Info("Participant joined", "id", e.ID, "avatars", e.Count)
	})
	bus.Subscribe(event.EventParticipantLeft, func(evt event.Event) {
		e := evt.(event.ParticipantEvent)
		slog.Info("Participant left", "id", e.ID, "avatars", e.Count)
	})
	bus.Subscribe(event.EventActionChanged, func(evt event.Event) {
		e := evt.(event.ActionChangedEvent)
		slog.Debug("Action changed", "from", e.From, "to", e.To)
	})
	bus.Subscribe(event.EventDisconnected, func(evt event.Event) {
		slog.Info("Remote avatars frozen until restart", "url", evt.(event.DisconnectedEvent).URL)
	})
}

package client

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"stepsync/internal/game"
	"stepsync/internal/lockstep"
)

// BuildSession assembles a session from the app configuration: world,
// renderer, codec and (when autoConnect is on) the websocket transport.
// Configuration problems surface here, before the loop ever starts.
func BuildSession(ctx context.Context, cfg AppConfig) (*lockstep.Session, *Transport, error) {
	log := NewLogger(cfg.LogPath)

	sel, err := lockstep.ResolveSyncMode(cfg.SyncMode)
	if err != nil {
		return nil, nil, err
	}
	codec, err := ResolveCodec(cfg.Codec)
	if err != nil {
		return nil, nil, err
	}

	world := game.NewWorld(game.WorldW, game.WorldH)
	world.SetPassive(cfg.Passive)

	var sender lockstep.Sender = lockstep.NopSender{}
	var transport *Transport
	if cfg.AutoConnect {
		transport, err = Dial(ctx, cfg.ServerURL, log)
		if err != nil {
			return nil, nil, err
		}
		sender = transport
	}

	session, err := lockstep.NewSession(lockstep.Config{
		TickHz:          cfg.TickHz,
		DelayInputCount: cfg.DelayInputCount,
		DriftThreshold:  lockstep.Step(cfg.DriftThreshold),
		Sync:            sel,
	}, lockstep.Collaborators{
		Simulation:   world,
		Renderer:     NewLogRenderer(log, world, int(cfg.FrameHz)),
		Deserializer: codec,
		Sender:       sender,
		Logger:       log,
	})
	if err != nil {
		if transport != nil {
			_ = transport.Close()
		}
		return nil, nil, err
	}

	// Authoritative events flow into the world; new objects flow back out to
	// registered observers.
	session.Hooks().OnSyncReceived(func(events []lockstep.SyncEvent, maxStep lockstep.Step) {
		world.ApplySyncEvents(events, maxStep)
	})
	world.SetObjectAddedHook(session.Hooks().FireObjectAdded)

	return session, transport, nil
}

// StartApp runs the client until the context is cancelled. The read pump and
// the tick loop are supervised together: either failing stops both.
func StartApp(ctx context.Context, cfg AppConfig) error {
	session, transport, err := BuildSession(ctx, cfg)
	if err != nil {
		return fmt.Errorf("start client: %w", err)
	}
	defer session.Close()

	g, ctx := errgroup.WithContext(ctx)
	if transport != nil {
		g.Go(func() error { return transport.ReadPump(ctx, session) })
		g.Go(func() error {
			<-ctx.Done()
			return transport.Close()
		})
	}
	g.Go(func() error { return session.Run(ctx, cfg.FrameHz) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/wricardo/drone-sim/game/config"
	"github.com/wricardo/drone-sim/game/engine"
	"github.com/wricardo/drone-sim/game/service"
	"github.com/wricardo/drone-sim/game/session"
)

// Run with -race: reads touch the access time while others list sessions.
func TestConcurrentReadsAndMoves(t *testing.T) {
	configs, err := config.NewManager("")
	if err != nil {
		t.Fatalf("config.NewManager failed: %v", err)
	}
	svc := service.NewDroneService(session.NewManager(), configs)
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	const workers = 8
	const rounds = 200

	var wg sync.WaitGroup
	errs := make(chan error, 4*workers*rounds)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if _, err := svc.GetSession(ctx, info.ID); err != nil {
					errs <- err
				}
				if _, err := svc.ListSessions(ctx); err != nil {
					errs <- err
				}
				if _, err := svc.GetState(ctx, info.ID); err != nil {
					errs <- err
				}
				if w == 0 {
					if _, err := svc.Move(ctx, info.ID, engine.Delta{DY: 1}); err != nil {
						errs <- err
					}
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent call failed: %v", err)
	}

	state, err := svc.GetState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	// From the origin, up is open all the way
	if state.Position != (engine.Position{Y: rounds}) {
		t.Errorf("Expected (0,%d,0), got %+v", rounds, state.Position)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/martinlindhe/unit"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/orreryworks/apparent/catalog"
	"github.com/orreryworks/apparent/core"
	"github.com/orreryworks/apparent/ephem"
	"github.com/orreryworks/apparent/internal/logging"
	"github.com/orreryworks/apparent/internal/observability"
)

func main() {
	scenarioPath := flag.String("scenario", "configs/solar_system.json", "path to the JSON layout scenario")
	originFlag := flag.String("origin", "0,0,0", "grid coordinate to observe from, as x,y,z")
	tle1 := flag.String("tle1", "", "TLE line 1 of a satellite to inject into the layout")
	tle2 := flag.String("tle2", "", "TLE line 2 of a satellite to inject into the layout")
	satRadiusKm := flag.Float64("sat-radius-km", 0.1, "sphere size of the injected satellite, in kilometres")
	satEpoch := flag.String("sat-epoch", "", "RFC3339 instant to propagate the satellite to (default: now)")
	metricsAddr := flag.String("metrics-addr", "", "optional listen address for a Prometheus /metrics endpoint")

	flag.Parse()

	ctx := context.Background()
	log := logging.NewFromEnv()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		panic(fmt.Errorf("failed to initialise tracing: %w", err))
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewLayoutCollector(nil)
	if err != nil {
		panic(fmt.Errorf("failed to register metrics: %w", err))
	}

	origin, err := parseOrigin(*originFlag)
	if err != nil {
		panic(fmt.Errorf("invalid -origin: %w", err))
	}

	// ==== Scenario → catalog ====

	f, err := os.Open(*scenarioPath)
	if err != nil {
		panic(fmt.Errorf("failed to open scenario %q: %w", *scenarioPath, err))
	}
	scenario, err := core.LoadScenario(f)
	f.Close()
	if err != nil {
		panic(fmt.Errorf("failed to load scenario: %w", err))
	}

	store := catalog.NewStore()
	unsubscribe := store.Subscribe(func(ev catalog.Event) {
		log.Info(ctx, "catalog body updated",
			logging.String("body", ev.Body.Name),
			logging.Int64("x", ev.Body.Position.X),
			logging.Int64("y", ev.Body.Position.Y),
			logging.Int64("z", ev.Body.Position.Z),
			logging.Uint64("hash", ev.Body.Position.Hash),
		)
	})
	defer unsubscribe()

	for _, body := range scenario.Bodies {
		if err := store.Add(catalog.Body{
			ID:       body.Name,
			Name:     body.Name,
			Position: body.Object.Position,
			Shape:    body.Object.Shape,
		}); err != nil {
			panic(fmt.Errorf("failed to register body: %w", err))
		}
	}

	// ==== Optional TLE satellite injection ====

	if *tle1 != "" && *tle2 != "" {
		at := time.Now().UTC()
		if *satEpoch != "" {
			at, err = time.Parse(time.RFC3339, *satEpoch)
			if err != nil {
				panic(fmt.Errorf("invalid -sat-epoch: %w", err))
			}
		}

		unitLength := scenario.Dimension / unit.Length(scenario.CoordinateBound*2)
		eph := ephem.NewSGP4FromTLE(*tle1, *tle2)

		if err := store.Add(catalog.Body{
			ID:       "satellite",
			Name:     "satellite",
			Position: eph.GridCoordinate(at, unitLength),
			Shape:    core.Sphere{Radius: unit.Length(*satRadiusKm) * unit.Kilometer},
		}); err != nil {
			panic(fmt.Errorf("failed to register satellite: %w", err))
		}
	}

	// ==== Build + observe ====

	layout, summary := catalog.BuildLayout(store, scenario.CoordinateBound, scenario.Dimension, core.WithLogger(log))
	for range summary.Placed {
		collector.RecordPlacement(true)
	}
	for _, name := range summary.Rejected {
		collector.RecordPlacement(false)
		log.Warn(ctx, "body rejected by layout", logging.String("body", name))
	}
	collector.SetObjectCount(layout.NumObjects())

	fmt.Printf("Loaded scenario %q: bound=%d, unit length=%.3f km, %d placed, %d rejected\n",
		*scenarioPath,
		layout.CoordinateBound(),
		layout.UnitLength().Kilometers(),
		len(summary.Placed),
		len(summary.Rejected),
	)

	tracer := otel.Tracer("simulator")
	_, span := tracer.Start(ctx, "layout.observe")
	start := time.Now()
	observed := layout.Observe(origin)
	collector.RecordObservation(time.Since(start))
	span.SetAttributes(
		attribute.Int("layout.objects", len(observed)),
		attribute.Int64("layout.coordinate_bound", layout.CoordinateBound()),
	)
	span.End()

	// Observe preserves insertion order, so placed names line up with
	// the observation results.
	for i, obs := range observed {
		distance := layout.Distance(obs.ObservedFrom, obs.Coordinates)
		fmt.Printf("↳ %-12s @ (%d, %d, %d) distance=%14.1f km visual angle=%10.6f°\n",
			summary.Placed[i],
			obs.Coordinates.X, obs.Coordinates.Y, obs.Coordinates.Z,
			distance.Kilometers(),
			obs.VisualAngle.Degrees(),
		)
	}

	// ==== Optional metrics endpoint ====

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}

		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error(ctx, "metrics server failed", logging.String("error", err.Error()))
			}
		}()
		fmt.Printf("Serving /metrics on %s; Ctrl-C to exit\n", *metricsAddr)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// parseOrigin parses an "x,y,z" flag value into a grid coordinate.
func parseOrigin(s string) (core.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return core.Coordinate{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var axes [3]int64
	for i, part := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return core.Coordinate{}, fmt.Errorf("axis %d: %w", i, err)
		}
		axes[i] = v
	}
	return core.NewCoordinate(axes[0], axes[1], axes[2]), nil
}

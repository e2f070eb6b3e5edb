package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/sensorhub/internal/config"
	"github.com/banshee-data/sensorhub/internal/db"
	"github.com/banshee-data/sensorhub/internal/hubmon"
	"github.com/banshee-data/sensorhub/internal/monitoring"
	"github.com/banshee-data/sensorhub/internal/serialport"
	"github.com/banshee-data/sensorhub/internal/shtp"
	"github.com/banshee-data/sensorhub/internal/trace"
	"github.com/banshee-data/sensorhub/internal/version"
	"github.com/google/uuid"
)

var (
	configPath  = flag.String("config", "", "Path to a JSON hub config file")
	port        = flag.String("port", "", "Serial port connected to the hub (overrides config)")
	baud        = flag.Int("baud", 0, "Serial baud rate (overrides config)")
	intervalMs  = flag.Int("interval-ms", 0, "Rotation vector report interval in milliseconds (overrides config)")
	tracePath   = flag.String("trace", "", "Append a CBOR frame trace to this file (overrides config)")
	dbPath      = flag.String("db", "", "Record routed reports to this sqlite database (overrides config)")
	listen      = flag.String("listen", "", "Serve /debug/ pages on this address (overrides config)")
	debug       = flag.Bool("debug", false, "Log every frame")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// loadConfig reads the config file, if any, and applies explicitly set flags
// on top of it.
func loadConfig(path string, set map[string]bool) (*config.HubConfig, error) {
	cfg := &config.HubConfig{}
	if path != "" {
		var err error
		if cfg, err = config.LoadHubConfig(path); err != nil {
			return nil, err
		}
	}

	if set["port"] {
		cfg.SerialPort = port
	}
	if set["baud"] {
		cfg.BaudRate = baud
	}
	if set["interval-ms"] {
		cfg.RotationVectorIntervalMs = intervalMs
	}
	if set["trace"] {
		cfg.TracePath = tracePath
	}
	if set["db"] {
		cfg.DBPath = dbPath
	}
	if set["listen"] {
		cfg.Listen = listen
	}
	if set["debug"] {
		cfg.DebugLogging = debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("shtp-monitor"))
		return
	}

	cfg, err := loadConfig(*configPath, setFlags())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	monitoring.SetDebug(cfg.GetDebugLogging())

	serialPort, err := serialport.Open(cfg.GetSerialPort(), cfg.GetPortOptions())
	if err != nil {
		log.Fatalf("failed to open hub port: %v", err)
	}
	uart := serialport.NewTransport(serialPort, cfg.GetReadTimeout())
	defer uart.Close()

	sessionID := uuid.NewString()
	var transport shtp.Transport = uart

	if p := cfg.GetTracePath(); p != "" {
		rec, err := trace.NewFileRecorder(p)
		if err != nil {
			log.Fatalf("failed to open trace file: %v", err)
		}
		defer rec.Close()
		transport = trace.NewTracingTransport(uart, rec, sessionID, nil)
		log.Printf("tracing frames to %s", p)
	}

	opts := hubmon.Options{Port: cfg.GetSerialPort(), SessionID: sessionID}

	var store *db.DB
	if p := cfg.GetDBPath(); p != "" {
		store, err = db.NewDB(p)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()
		opts.Store = store
	}

	monitor := hubmon.New(transport, opts)
	defer monitor.Close()

	if err := monitor.Start(cfg.GetRotationVectorIntervalMs()); err != nil {
		log.Fatalf("failed to initialise hub: %v", err)
	}
	log.Printf("%s: session %s on %s", version.String("shtp-monitor"), sessionID, cfg.GetSerialPort())

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("monitor stopped: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	if addr := cfg.GetListen(); addr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()

			mux := http.NewServeMux()
			monitor.AttachAdminRoutes(mux)
			if store != nil {
				if err := store.AttachAdminRoutes(mux); err != nil {
					log.Printf("failed to attach db routes: %v", err)
				}
			}

			server := &http.Server{Addr: addr, Handler: mux}
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			log.Printf("debug pages on http://%s/debug/", addr)

			<-ctx.Done()
			log.Println("shutting down HTTP server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("HTTP server shutdown error: %v", err)
				if err := server.Close(); err != nil {
					log.Printf("HTTP server force close error: %v", err)
				}
			}
		}()
	}

	wg.Wait()

	snap := monitor.Snapshot()
	log.Printf("session %s: %d frames, %d errors", snap.SessionID, snap.Frames, snap.Errors)
	log.Printf("Graceful shutdown complete")
}

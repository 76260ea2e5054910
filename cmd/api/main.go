package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vantage.org/internal/audit"
	"vantage.org/internal/daemon"
	"vantage.org/internal/httpapi"
	"vantage.org/internal/obs"
	"vantage.org/internal/policy"
	"vantage.org/internal/query"
	"vantage.org/internal/store/pg"
	"vantage.org/internal/stream"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	var (
		catalog  policy.Catalog
		recorder audit.Recorder
		probe    httpapi.ReadyProbe
		store    *pg.Store
	)
	if dsn := os.Getenv("VANTAGE_PG_DSN"); dsn != "" {
		var err error
		store, err = pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		catalog = store
		recorder = store
		probe = httpapi.ReadyProbe{DB: store.DB()}
	} else {
		// no DSN: in-memory catalog with the default workspace, audit to stdout
		catalog = policy.NewDefaultCatalog()
		recorder = audit.LineRecorder{}
	}

	var executor daemon.Executor
	if url := os.Getenv("VANTAGE_DAEMON_URL"); url != "" {
		remote, err := daemon.NewRemote(url)
		if err != nil {
			log.Fatalf("daemon client: %v", err)
		}
		executor = remote
	} else {
		executor = daemon.NewMock()
	}

	validator, err := query.NewValidator(catalog)
	if err != nil {
		log.Fatalf("validator: %v", err)
	}
	engine, err := query.NewEngine(validator, executor, recorder)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	api := httpapi.New(catalog, engine, recorder, probe, version)
	api.SetStream(stream.New())

	addr := os.Getenv("VANTAGE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting vantage-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	obs.SetReady(true)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")
	obs.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if store != nil {
		_ = store.Close()
	}
	log.Println("Stopped")
}

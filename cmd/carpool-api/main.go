// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"carpool/internal/ai"
	"carpool/internal/config"
	httptransport "carpool/internal/http"
	"carpool/internal/http/handlers"
	"carpool/internal/infra"
	"carpool/internal/maps"
	"carpool/internal/modules/aiquota"
	"carpool/internal/modules/location"
	"carpool/internal/modules/matchconfig"
	"carpool/internal/modules/matching"
	"carpool/internal/modules/plan"
	"carpool/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var verifier infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		verifier, err = infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("firebase init: %v", err)
		}
	} else {
		log.Printf("CARPOOL_FIREBASE_PROJECT_ID unset; organizer endpoints run unauthenticated")
	}

	configStore := matchconfig.NewStore(dbPool)
	configSvc := matchconfig.NewService(configStore)

	planStore := plan.NewStore(dbPool)

	matchingSvc := matching.NewService(planStore, configSvc)

	effectiveCfg, err := configSvc.Load(ctx)
	if err != nil {
		log.Printf("config load: %v; manual edits use defaults", err)
		effectiveCfg = matching.DefaultConfig()
	}
	planSvc := plan.NewService(planStore, effectiveCfg)

	deps := httptransport.RouterDeps{
		Verifier: verifier,
		Match:    handlers.NewMatchHandler(matchingSvc, nil),
		Plan:     handlers.NewPlanHandler(planSvc),
		Config:   handlers.NewConfigHandler(configSvc),
	}

	if cfg.Maps.APIKey != "" {
		geocoder, err := maps.NewGeocoder(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		locationStore := location.NewStore(dbPool, redisClient)
		locationSvc := location.NewService(locationStore, geocoder)
		deps.Match = handlers.NewMatchHandler(matchingSvc, locationSvc)
		deps.Geocode = handlers.NewGeocodeHandler(locationSvc)
	} else {
		log.Printf("GOOGLE_MAPS_API_KEY unset; requests must carry coordinates")
	}

	if cfg.AI.GeminiKey != "" {
		writer, err := ai.NewGeminiWriter(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer writer.Close()
		quotaSvc := aiquota.NewService(aiquota.NewStore(dbPool))
		deps.Announce = handlers.NewAnnounceHandler(service.NewAnnouncer(planStore, quotaSvc, writer))
	} else {
		log.Printf("GEMINI_API_KEY unset; announcement endpoint disabled")
	}

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: httptransport.NewRouter(deps)}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

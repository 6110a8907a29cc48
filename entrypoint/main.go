package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"parshealth.com/triage/api"
	"parshealth.com/triage/doctors"
	"parshealth.com/triage/logger"
	"parshealth.com/triage/pipeline"
	"parshealth.com/triage/worker"
)

type Config struct {
	ResourceDir   string `envconfig:"PARS_RESOURCE_DIR" required:"true"`
	TaxonomyPath  string `envconfig:"PARS_TAXONOMY_PATH" default:""`
	RestAPIActive bool   `envconfig:"PARS_REST_API_ACTIVE" default:"true"`
	RestAPIPort   string `envconfig:"PARS_REST_API_PORT" default:"8000"`
	WorkerActive  bool   `envconfig:"PARS_WORKER_ACTIVE" default:"false"`
}

const pipelineStartMaxRetries = 5

func main() {
	logger.SetupLogging()
	parsLogger := logger.NewLogger("Main")
	fatalErrLogger := parsLogger.Fatal().Caller()

	// The deployment keeps credentials in a .env file next to the
	// binary; absence is fine in containerized environments.
	if err := godotenv.Load(); err != nil {
		parsLogger.Debug().Msg("No .env file found, using process environment")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	store := connectDoctorStore(parsLogger)

	// Load pipeline
	serviceChannel := make(chan *pipeline.Service)
	go func() {
		for retry := 0; retry < pipelineStartMaxRetries; retry++ {
			params := pipeline.GetDefaultParams(config.ResourceDir, store)
			params.TaxonomyPath = config.TaxonomyPath
			service, err := pipeline.New(params)
			if err != nil {
				parsLogger.Err(err).Msg("Failed to start triage pipeline. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			parsLogger.Info().
				Bool("model_loaded", service.ModelLoaded()).
				Msg("Triage pipeline loaded")
			serviceChannel <- service
			return
		}
		fatalErrLogger.Msg("Could not start triage pipeline after 5 retries, exiting")
		os.Exit(1)
	}()

	// block until the pipeline loads
	service := <-serviceChannel

	if config.RestAPIActive {
		go func() {
			parsLogger.Info().Msg("Starting API service")
			mux := http.NewServeMux()
			handler := &api.Handler{Service: service}
			handler.Register(mux)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			parsLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, mux)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}()
	}

	if !config.WorkerActive {
		parsLogger.Info().Msg("Worker disabled, serving API only")
		select {}
	}

	parsLogger.Info().Msg("Start triage worker")
	for {
		rmqWorker, err := worker.New(service.Pipeline())
		if err != nil {
			parsLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			parsLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}

// connectDoctorStore falls back to the unavailable store (placeholder
// referrals) rather than refusing to start when the roster database is
// down.
func connectDoctorStore(parsLogger zerolog.Logger) doctors.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := doctors.NewPGStore(ctx)
	if err != nil {
		parsLogger.Err(err).Msg("Doctor store unavailable, referrals will use placeholder entries")
		return doctors.UnavailableStore{}
	}
	return store
}

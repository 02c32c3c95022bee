package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"iproperty_extractor/config"
	"iproperty_extractor/logging"
	"iproperty_extractor/pipeline"
	"iproperty_extractor/scheduler"
	"iproperty_extractor/storage"
)

var (
	rootFlag   = flag.String("root", "", "Input folder (or archive) of listing page dumps")
	outFlag    = flag.String("out", "", "Output CSV path override")
	sourceFlag = flag.String("source", "", "Run only this configured source")
	daemonFlag = flag.Bool("daemon", false, "Keep running and re-sweep on the configured schedule")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, logFile, err := logging.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	// An ad-hoc -root run becomes a synthetic source. With neither flags
	// nor source configs, fall back to asking, matching how the tool is
	// used interactively against a fresh dump folder.
	if *rootFlag == "" && len(cfg.Sources) == 0 {
		*rootFlag = promptRoot()
	}
	if *rootFlag != "" {
		out := *outFlag
		if out == "" {
			out = "iproperty_extract.csv"
		}
		cfg.Sources = map[string]*config.SourceConfig{
			"adhoc": {ID: "adhoc", Name: "ad-hoc", Root: *rootFlag, OutFile: out},
		}
		*sourceFlag = "adhoc"
	}
	if len(cfg.Sources) == 0 {
		log.Fatal().Msg("no input: pass -root or add a config/sources/*.yaml")
	}

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("sqlite open failed")
	}
	defer store.Close()
	log.Info().Str("db", cfg.DBPath).Msg("sqlite ready")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipe := pipeline.New(cfg, store, log.With().Str("component", "pipeline").Logger())

	var pgStore *storage.PostgresStore
	if cfg.Postgres.URL != "" {
		pgStore, err = storage.NewPostgresStore(ctx, cfg.Postgres.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connect failed")
		}
		defer pgStore.Close()
		if err := pgStore.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("postgres migrate failed")
		}
		log.Info().Msg("postgres mirror enabled")
	}
	var artifacts *storage.ArtifactStore
	if cfg.S3.Bucket != "" {
		artifacts, err = storage.NewArtifactStore(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("s3 setup failed")
		}
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("artifact uploads enabled")
	}
	pipe.SetSinks(pgStore, artifacts)

	runOnce := func() error {
		if *sourceFlag != "" {
			return pipe.RunSource(ctx, *sourceFlag)
		}
		return pipe.RunAll(ctx)
	}

	if !*daemonFlag {
		if err := runOnce(); err != nil {
			log.Fatal().Err(err).Msg("extraction failed")
		}
		return
	}

	if err := runOnce(); err != nil {
		log.Error().Err(err).Msg("initial sweep failed")
	}

	sched := scheduler.New(cfg, pipe, log.With().Str("component", "scheduler").Logger())
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}
	log.Info().Msg("daemon running, Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	sched.Stop()
}

func promptRoot() string {
	fmt.Print("Folder with listing HTML dumps: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/HarryR/sapphire-hodlem/game"
	"github.com/HarryR/sapphire-hodlem/logging"
	"github.com/HarryR/sapphire-hodlem/nats"
	"github.com/HarryR/sapphire-hodlem/ranking"
	"github.com/HarryR/sapphire-hodlem/util/random"
)

var mainLogger = logging.GetZeroLogger("main", nil)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var ranksDir = flag.String("ranks", "cache/scores", "directory of the hand ranking database")
	var buildRanks = flag.Bool("build-ranks", false, "build the ranking database and exit")
	var showRoot = flag.Bool("show-root", false, "print the database merkle root and exit")
	var presetsFile = flag.String("presets", "presets.yaml", "table presets file")
	var natsURL = flag.String("nats", natsgo.DefaultURL, "NATS server URL")
	var redisURL = flag.String("redis", "", "redis address for table state (empty: in-memory)")
	flag.Parse()

	if *buildRanks {
		root, err := ranking.Build(*ranksDir)
		if err != nil {
			mainLogger.Fatal().Err(err).Msg("Building ranking database failed")
		}
		fmt.Printf("merkle root = 0x%x\n", root)
		return
	}

	store, err := ranking.OpenStore(*ranksDir)
	if err != nil {
		mainLogger.Fatal().Err(err).Msgf("Could not open ranking database under %s (run with -build-ranks first)", *ranksDir)
	}
	defer store.Close()

	if *showRoot {
		root := store.Root()
		fmt.Printf("merkle root = 0x%x\n", root)
		return
	}

	presets, err := game.ReadPresets(*presetsFile)
	if err != nil {
		mainLogger.Fatal().Err(err).Msg("Could not read table presets")
	}

	var persist game.PersistHandState
	if *redisURL != "" {
		persist = game.NewRedisHandStateTracker(*redisURL, os.Getenv("REDIS_PASSWORD"), 0)
	} else {
		persist = game.NewMemoryHandStateTracker()
	}

	nc, err := natsgo.Connect(*natsURL)
	if err != nil {
		mainLogger.Fatal().Err(err).Msgf("Could not connect to NATS at %s", *natsURL)
	}
	defer nc.Close()

	manager := game.NewManager(presets, persist, store, nats.NewPublisher(nc), random.NewSeed)
	sweeper := game.NewTimeoutSweeper(manager, time.Second)
	sweeper.Run()
	defer sweeper.Destroy()

	if err := nats.ServeActions(nc, manager); err != nil {
		mainLogger.Fatal().Err(err).Msg("Could not subscribe for player actions")
	}
	mainLogger.Info().Msg("Table server running")
	select {}
}

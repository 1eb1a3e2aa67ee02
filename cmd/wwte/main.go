// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

// Command wwte picks a nearby restaurant from the terminal and manages the
// same favorites, blacklist and filters the server uses.
//
//	wwte pick --lat 25.0338 --lng 121.5645 --reroll 2
//	wwte favorite ChIJN1t_tDeuEmsRUsoyG83frY4
//	wwte filters set --radius 1500 --price 1 --price 2
//	wwte filters reset
//	wwte --ephemeral filters show
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/tomtom215/wwte/internal/logging"
)

func main() {
	_ = godotenv.Load()

	logging.Init(logging.Config{Level: "warn", Format: "console"})

	if err := newApp(os.Stdout, defaultDeps()).Run(os.Args); err != nil {
		logging.Fatal().Err(err).Msg("wwte failed")
	}
}

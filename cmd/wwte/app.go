// WWTE - Nearby Restaurant Selection and Rotation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wwte

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/tomtom215/wwte/internal/config"
	"github.com/tomtom215/wwte/internal/geo"
	"github.com/tomtom215/wwte/internal/logging"
	"github.com/tomtom215/wwte/internal/models"
	"github.com/tomtom215/wwte/internal/places"
	"github.com/tomtom215/wwte/internal/preferences"
	"github.com/tomtom215/wwte/internal/recommend"
	"github.com/tomtom215/wwte/internal/validation"
)

// deps are the pieces a command builds on. Tests swap them out.
type deps struct {
	loadConfig  func() (*config.Config, error)
	newSearcher func(cfg *config.Config) (recommend.Searcher, error)
}

func defaultDeps() deps {
	return deps{
		loadConfig: config.Load,
		newSearcher: func(cfg *config.Config) (recommend.Searcher, error) {
			return places.NewClient(&cfg.Places, places.WithLogger(logging.WithComponent("places")))
		},
	}
}

var errUsage = errors.New("usage error")

func newApp(out io.Writer, d deps) *cli.App {
	app := &cli.App{
		Name:   "wwte",
		Usage:  "pick a nearby restaurant and manage preferences",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a config.yaml file",
			},
			&cli.BoolFlag{
				Name:  "ephemeral",
				Usage: "keep preferences in memory for this run only",
			},
		},
		Commands: []*cli.Command{{
			Name:  "pick",
			Usage: "search around a location and pick a restaurant",
			Flags: []cli.Flag{
				&cli.Float64Flag{Name: "lat", Usage: "latitude of the search origin", Required: true},
				&cli.Float64Flag{Name: "lng", Usage: "longitude of the search origin", Required: true},
				&cli.IntFlag{Name: "reroll", Usage: "pick again this many times after the first pick"},
				&cli.BoolFlag{Name: "json", Usage: "print picks as JSON"},
			},
			Action: withStore(d, func(c *cli.Context, cfg *config.Config, store *preferences.Store) error {
				return pick(c, d, cfg, store)
			}),
		}, {
			Name:      "favorite",
			Usage:     "toggle a place in the favorites",
			ArgsUsage: "PLACE_ID",
			Action: withStore(d, func(c *cli.Context, _ *config.Config, store *preferences.Store) error {
				return toggle(c, "favorites", store.ToggleFavorite)
			}),
		}, {
			Name:      "blacklist",
			Aliases:   []string{"block"},
			Usage:     "toggle a place in the blacklist",
			ArgsUsage: "PLACE_ID",
			Action: withStore(d, func(c *cli.Context, _ *config.Config, store *preferences.Store) error {
				return toggle(c, "blacklist", store.ToggleBlacklist)
			}),
		}, {
			Name:  "filters",
			Usage: "show or change search filters",
			Subcommands: []*cli.Command{{
				Name:  "show",
				Usage: "print the current filters and lists as JSON",
				Action: withStore(d, func(c *cli.Context, _ *config.Config, store *preferences.Store) error {
					return printJSON(c.App.Writer, store.Snapshot())
				}),
			}, {
				Name:  "set",
				Usage: "change the given filters, keeping the rest",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "radius", Usage: "search radius in meters"},
					&cli.Float64Flag{Name: "min-rating", Usage: "minimum rating, 0 to 5"},
					&cli.IntFlag{Name: "min-reviews", Usage: "minimum number of user ratings"},
					&cli.IntSliceFlag{Name: "price", Usage: "allowed price level, 0 to 4 (repeatable)"},
					&cli.StringSliceFlag{Name: "category", Usage: "place type or keyword (repeatable)"},
					&cli.BoolFlag{Name: "open-now", Usage: "only places open now"},
				},
				Action: withStore(d, func(c *cli.Context, _ *config.Config, store *preferences.Store) error {
					return setFilters(c, store)
				}),
			}, {
				Name:  "reset",
				Usage: "restore the default filters, keeping excluded places",
				Action: withStore(d, func(c *cli.Context, _ *config.Config, store *preferences.Store) error {
					return printJSON(c.App.Writer, store.ResetFilters(c.Context))
				}),
			}},
		}},
	}
	return app
}

type storeAction func(c *cli.Context, cfg *config.Config, store *preferences.Store) error

// withStore loads configuration, opens the preference store for the
// duration of the command, and closes it afterwards.
func withStore(d deps, action storeAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		if path := c.String("config"); path != "" {
			if err := os.Setenv(config.ConfigPathEnvVar, path); err != nil {
				return fmt.Errorf("setting config path: %w", err)
			}
		}

		cfg, err := d.loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if c.Bool("ephemeral") {
			cfg.Preferences.Backend = string(preferences.BackendMemory)
		}

		ctx := c.Context
		if ctx == nil {
			ctx = context.Background()
		}

		backend, err := preferences.OpenBackend(ctx, &cfg.Preferences)
		if err != nil {
			return fmt.Errorf("opening %s preferences: %w", cfg.Preferences.Backend, err)
		}
		store, err := preferences.NewStore(ctx, backend,
			preferences.WithKeyPrefix(cfg.Preferences.KeyPrefix),
			preferences.WithPersistTimeout(cfg.Preferences.PersistTimeout),
		)
		if err != nil {
			_ = backend.Close()
			return fmt.Errorf("loading preferences: %w", err)
		}

		actionErr := action(c, cfg, store)
		if err := store.Close(); err != nil && actionErr == nil {
			return err
		}
		return actionErr
	}
}

func pick(c *cli.Context, d deps, cfg *config.Config, store *preferences.Store) error {
	origin := geo.Coordinate{Latitude: c.Float64("lat"), Longitude: c.Float64("lng")}
	if verr := validation.ValidateVar("lat", origin.Latitude, "latitude"); verr != nil {
		return fmt.Errorf("%w: %v", errUsage, verr)
	}
	if verr := validation.ValidateVar("lng", origin.Longitude, "longitude"); verr != nil {
		return fmt.Errorf("%w: %v", errUsage, verr)
	}
	rerolls := c.Int("reroll")
	if rerolls < 0 {
		return fmt.Errorf("%w: --reroll must not be negative", errUsage)
	}

	searcher, err := d.newSearcher(cfg)
	if err != nil {
		return fmt.Errorf("creating Places client: %w", err)
	}
	engine, err := recommend.NewEngine(recommend.ConfigFromSettings(&cfg.Selection), searcher, store, logging.WithComponent("pick"))
	if err != nil {
		return err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	snap, err := engine.SetLocation(ctx, origin)
	if err != nil {
		return err
	}
	picks := make([]models.Restaurant, 0, rerolls+1)
	for i := 0; ; i++ {
		if snap.State != recommend.StateReady || snap.Current == nil {
			return fmt.Errorf("no pick: %s", snap.Message)
		}
		picks = append(picks, *snap.Current)
		if i == rerolls {
			break
		}
		if snap, err = engine.Reroll(ctx); err != nil {
			return err
		}
	}

	if c.Bool("json") {
		return printJSON(c.App.Writer, picks)
	}
	for i, r := range picks {
		printRestaurant(c.App.Writer, i+1, &r, store.IsFavorite(r.PlaceID))
	}
	return nil
}

func printRestaurant(w io.Writer, n int, r *models.Restaurant, favorite bool) {
	star := ""
	if favorite {
		star = " ★"
	}
	fmt.Fprintf(w, "%d. %s%s\n", n, r.Name, star)
	fmt.Fprintf(w, "   %.1f (%d reviews)  %s", r.Rating, r.UserRatingsTotal, models.FormatDistance(r.DistanceMeters))
	if price := models.FormatPriceLevel(r.PriceLevel); price != "" {
		fmt.Fprintf(w, "  %s", price)
	}
	fmt.Fprintln(w)
	if r.Address != "" {
		fmt.Fprintf(w, "   %s\n", r.Address)
	}
	fmt.Fprintf(w, "   %s\n", r.NavigationURL())
	fmt.Fprintf(w, "   id: %s\n", r.PlaceID)
}

func toggle(c *cli.Context, list string, fn func(context.Context, string) bool) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%w: expected exactly one PLACE_ID", errUsage)
	}
	id := c.Args().First()
	if verr := validation.ValidateVar("place_id", id, "required,place_id"); verr != nil {
		return fmt.Errorf("%w: %v", errUsage, verr)
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if fn(ctx, id) {
		fmt.Fprintf(c.App.Writer, "added %s to %s\n", id, list)
	} else {
		fmt.Fprintf(c.App.Writer, "removed %s from %s\n", id, list)
	}
	return nil
}

func setFilters(c *cli.Context, store *preferences.Store) error {
	f := store.Filters()
	if c.IsSet("radius") {
		f.Radius = c.Int("radius")
	}
	if c.IsSet("min-rating") {
		f.MinRating = c.Float64("min-rating")
	}
	if c.IsSet("min-reviews") {
		f.MinUserRatings = c.Int("min-reviews")
	}
	if c.IsSet("price") {
		f.PriceLevels = c.IntSlice("price")
	}
	if c.IsSet("category") {
		f.Categories = c.StringSlice("category")
	}
	if c.IsSet("open-now") {
		f.OpenNow = c.Bool("open-now")
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if err := store.SetFilters(ctx, f); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return printJSON(c.App.Writer, store.Filters())
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

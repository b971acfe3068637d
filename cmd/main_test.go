package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/jakedibattista/Scout/internal/app"
	"github.com/jakedibattista/Scout/internal/config"
	"github.com/jakedibattista/Scout/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SCOUT_ADDR", ":8080")
			_ = os.Setenv("SCOUT_MAX_RESULTS", "10")
			defer func() {
				_ = os.Unsetenv("SCOUT_ADDR")
				_ = os.Unsetenv("SCOUT_MAX_RESULTS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxResults, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When seeding the store from a fixture", func() {
			fixture := `{
  "scouts": [{"userId": "scout-1", "username": "coach_amy", "preferences": {"sport": "lacrosse"}}],
  "athletes": [{"id": "ath-1", "name": "Jo Miller", "sport": "lacrosse", "state": "MD", "position": "attack", "gradYear": 2026}],
  "bundles": [{"athleteId": "ath-1", "drill": "shuttle_5_10_5", "metrics": {"Total Time": 3.9}}]
}`
			path := filepath.Join(t.TempDir(), "seed.json")
			convey.So(os.WriteFile(path, []byte(fixture), 0o600), convey.ShouldBeNil)

			ctx := context.Background()
			svc := app.New()
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then the fixture lands in the store", func() {
				convey.So(seedStore(ctx, svc, path), convey.ShouldBeNil)
				convey.So(svc.Store().CountAthletes(ctx), convey.ShouldEqual, 1)

				scout, err := svc.Store().ScoutByUsername(ctx, "coach_amy")
				convey.So(err, convey.ShouldBeNil)
				convey.So(scout.UserID, convey.ShouldEqual, "scout-1")
			})
		})

		convey.Convey("When seeding from a missing file", func() {
			ctx := context.Background()
			svc := app.New()
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then seeding fails", func() {
				convey.So(seedStore(ctx, svc, "/non/existent/seed.json"), convey.ShouldNotBeNil)
			})
		})
	})
}

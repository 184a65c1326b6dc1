package config_test

import (
	"errors"
	"testing"

	"github.com/okian/zrinyi/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the production defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.FirstRegion, convey.ShouldEqual, 10)
			convey.So(cfg.LastRegion, convey.ShouldEqual, 35)
			convey.So(cfg.SchoolTopN, convey.ShouldEqual, 4)
			convey.So(cfg.Encoding, convey.ShouldEqual, "windows-1250")
			convey.So(cfg.Strict, convey.ShouldBeTrue)
			convey.So(cfg.AllowDownload, convey.ShouldBeTrue)
			convey.So(cfg.FetchConcurrency, convey.ShouldEqual, 1)
			convey.So(cfg.DownloadDir, convey.ShouldEqual, "./downloads")
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(config.Validate(cfg), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with an inverted region range", t, func() {
		cfg := config.New()
		cfg.FirstRegion = 20
		cfg.LastRegion = 19

		err := config.Validate(cfg)

		convey.Convey("Then validation should fail with ErrInvalidConfig", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "lastregion")
		})
	})

	convey.Convey("Given a config with a zero school cap", t, func() {
		cfg := config.New()
		cfg.SchoolTopN = 0

		convey.Convey("Then validation should fail", func() {
			err := config.Validate(cfg)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "schooltopn")
		})
	})

	convey.Convey("Given a config with an unknown log level", t, func() {
		cfg := config.New()
		cfg.LogLevel = "chatty"

		convey.Convey("Then validation should fail", func() {
			convey.So(config.Validate(cfg), convey.ShouldNotBeNil)
		})
	})
}

// Package config loads environment variables into typed structs, caching
// each config type for the lifetime of the process.
//
// A .env file in the working directory is loaded automatically on first
// use; parsing is delegated to caarlos0/env struct tags.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/apikit/core/config"
//
//	type appConfig struct {
//		Name  string `env:"APP_NAME" envDefault:"apikit"`
//		Debug bool   `env:"APP_DEBUG" envDefault:"false"`
//	}
//
//	func main() {
//		var cfg appConfig
//		config.MustLoad(&cfg)
//
//		var srvCfg server.Config
//		config.MustLoad(&srvCfg)
//	}
//
// Required variables fail the load when unset:
//
//	type dbConfig struct {
//		DSN string `env:"DATABASE_URL,required"`
//	}
//
//	var db dbConfig
//	if err := config.Load(&db); err != nil {
//		log.Fatal(err)
//	}
//
// # Caching
//
// Each type is parsed once. Later loads of the same type return the first
// result, so two components reading server.Config see identical values:
//
//	var a, b server.Config
//	config.MustLoad(&a)
//	config.MustLoad(&b) // cached, b == a
//
// Distinct types cache independently.
package config

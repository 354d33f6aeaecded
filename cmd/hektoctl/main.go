// Command hektoctl runs operator tasks against the Hekto database: seeding
// demo data, importing a CMS export, printing metrics and hashing the admin
// password.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

// Globals are flags shared by every command.
type Globals struct {
	MongoURI string `name:"mongo-uri" default:"mongodb://localhost:27017" env:"HEKTO_MONGO_URI" help:"MongoDB connection URI."`
	Database string `name:"database" default:"hekto" env:"HEKTO_MONGO_DATABASE" help:"MongoDB database name."`
	Verbose  bool   `short:"v" help:"Log at debug level."`
}

type cli struct {
	Globals

	Seed         seedCmd         `cmd:"" help:"Insert products and orders from a YAML seed file."`
	Import       importCmd       `cmd:"" help:"Import productData and order documents from a CMS NDJSON export."`
	Metrics      metricsCmd      `cmd:"" help:"Print the dashboard summary."`
	HashPassword hashPasswordCmd `cmd:"" name:"hash-password" help:"Print a bcrypt hash for admin_password_hash."`
}

func main() {
	var c cli
	ctx := context.Background()
	kctx := kong.Parse(&c,
		kong.Name("hektoctl"),
		kong.Description("Operator tasks for the Hekto store."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	logger, err := newLogger(c.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hektoctl:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	err = kctx.Run(&c.Globals, logger)
	kctx.FatalIfErrorf(err)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

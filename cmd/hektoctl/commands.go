package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	orderstore "github.com/dalemusser/hekto/internal/app/store/orders"
	productstore "github.com/dalemusser/hekto/internal/app/store/products"
	"github.com/dalemusser/hekto/internal/app/system/analytics"
	"github.com/dalemusser/hekto/internal/app/system/auth"
	"github.com/dalemusser/hekto/internal/app/system/format"
	"github.com/dalemusser/hekto/internal/app/system/indexes"
	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/app/system/sanityimport"
	"github.com/dalemusser/hekto/internal/app/system/seed"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| seed                                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

type seedCmd struct {
	File string `required:"" type:"existingfile" help:"Seed YAML file."`
}

func (cmd *seedCmd) Run(ctx context.Context, g *Globals, logger *zap.Logger) error {
	f, err := seed.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	db, closeFn, err := connect(ctx, g)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		return err
	}
	res, err := seed.Apply(ctx, f, productstore.New(db), orderstore.New(db), logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "seeded %d products and %d orders into %s\n", res.Products, res.Orders, g.Database)
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| import                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

type importCmd struct {
	File string `required:"" type:"existingfile" help:"NDJSON dataset export."`
}

func (cmd *importCmd) Run(ctx context.Context, g *Globals, logger *zap.Logger) error {
	fh, err := os.Open(cmd.File)
	if err != nil {
		return err
	}
	defer fh.Close()

	ds, err := sanityimport.Parse(fh)
	if err != nil {
		return err
	}

	db, closeFn, err := connect(ctx, g)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		return err
	}
	im := &sanityimport.Importer{
		Products: productstore.New(db),
		Orders:   orderstore.New(db),
		Log:      logger,
	}
	res, err := im.Import(ctx, ds)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "imported %d products and %d orders (%d skipped, %d failed)\n",
		res.Products, res.Orders, res.Skipped, len(res.Failed))
	for _, f := range res.Failed {
		fmt.Fprintln(os.Stdout, "  failed:", f)
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| metrics                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

type metricsCmd struct {
	LowStock int  `name:"low-stock" default:"5" help:"Low stock threshold."`
	JSON     bool `name:"json" help:"Print the full summary as JSON."`
}

func (cmd *metricsCmd) Run(ctx context.Context, g *Globals, logger *zap.Logger) error {
	db, closeFn, err := connect(ctx, g)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	orders, err := orderstore.New(db).List(ctx, orderflow.FilterAll)
	if err != nil {
		return err
	}
	products, err := productstore.New(db).List(ctx)
	if err != nil {
		return err
	}
	s := analytics.Summarize(orders, products, analytics.Options{LowStockThreshold: cmd.LowStock})
	logger.Debug("summary computed", zap.Int("orders", len(orders)), zap.Int("products", len(products)))

	if cmd.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	rows := [][2]string{
		{"Total orders", format.Count(s.TotalOrders)},
		{"Pending orders", format.Count(s.PendingOrders)},
		{"Total products", format.Count(s.TotalProducts)},
		{"Low stock items", format.Count(s.LowStockItems)},
		{"Total revenue", format.Money(s.TotalRevenue)},
		{"Net revenue", format.Money(s.NetRevenue)},
		{"Average order", format.Money(s.AverageOrderValue)},
		{"Inventory value", format.Money(s.InventoryValue)},
	}
	for _, row := range rows {
		fmt.Fprintf(os.Stdout, "%-16s %s\n", row[0], row[1])
	}
	for _, st := range s.ByStatus {
		fmt.Fprintf(os.Stdout, "  %-14s %5d  %s\n", format.StatusLabel(st.Status), st.Count, format.Money(st.Revenue))
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| hash-password                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type hashPasswordCmd struct {
	Password string `required:"" env:"HEKTO_ADMIN_PASSWORD" help:"Password to hash."`
}

func (cmd *hashPasswordCmd) Run() error {
	h, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, h)
	return nil
}

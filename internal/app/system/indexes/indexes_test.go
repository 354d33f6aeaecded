package indexes_test

import (
	"testing"

	"github.com/dalemusser/hekto/internal/app/system/indexes"
	"github.com/dalemusser/hekto/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	products := indexNames(t, db, "products")
	for _, want := range []string{"uniq_products_name_key", "idx_products_nameci__id", "idx_products_category_stock"} {
		if !products[want] {
			t.Errorf("products index %q missing", want)
		}
	}

	orders := indexNames(t, db, "orders")
	for _, want := range []string{"idx_orders_status_date__id", "idx_orders_date__id", "idx_orders_email"} {
		if !orders[want] {
			t.Errorf("orders index %q missing", want)
		}
	}
}

func TestEnsureAll_RejectsDuplicateNameKeys(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	coll := db.Collection("products")
	if _, err := coll.InsertOne(ctx, bson.M{"name_key": "oak-table"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := coll.InsertOne(ctx, bson.M{"name_key": "oak-table"}); err == nil {
		t.Error("expected duplicate key error")
	}
}

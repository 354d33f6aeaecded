// Package validators attaches MongoDB $jsonSchema validators to the
// products and orders collections.
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoDB command error codes EnsureAll tolerates.
const (
	codeNamespaceExists = 48
	codeCommandNotFound = 59
	codeNotImplemented  = 115
)

// EnsureAll creates the products and orders collections when missing and
// attaches their $jsonSchema validators. Servers without collMod support
// (some DocumentDB versions) keep the collections unvalidated.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, c := range []struct {
		name   string
		schema bson.M
	}{
		{"products", productsSchema()},
		{"orders", ordersSchema()},
	} {
		if err := ensureValidated(ctx, db, c.name, c.schema); err != nil {
			problems = append(problems, c.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureValidated(ctx context.Context, db *mongo.Database, name string, schema bson.M) error {
	if err := db.CreateCollection(ctx, name); err != nil {
		if commandCode(err) != codeNamespaceExists {
			return err
		}
	} else {
		zap.L().Info("created collection", zap.String("collection", name))
	}

	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		if unsupported(err) {
			zap.L().Info("validator skipped (unsupported)", zap.String("collection", name))
			return nil
		}
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

// commandCode returns the server error code carried by err, or 0.
func commandCode(err error) int32 {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return 0
}

// unsupported reports whether the server rejected collMod as unknown.
func unsupported(err error) bool {
	switch commandCode(err) {
	case codeCommandNotFound, codeNotImplemented:
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such command") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

// These mirror the storage invariants only. Request-level rules (name and
// address lengths, phone and postal code formats) live in docschema.

func productsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "name_key", "price", "stock"},
			"properties": bson.M{
				"name":        bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name_ci":     bson.M{"bsonType": "string", "minLength": 1},
				"name_key":    bson.M{"bsonType": "string", "minLength": 1},
				"price":       bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0},
				"stock":       bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"category":    bson.M{"bsonType": "string"},
				"description": bson.M{"bsonType": "string"},
				"image_path":  bson.M{"bsonType": "string"},
			},
		},
	}
}

func ordersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "total_price", "order_date"},
			"properties": bson.M{
				"full_name":    bson.M{"bsonType": "string", "minLength": 1},
				"email":        bson.M{"bsonType": "string", "minLength": 3},
				"total_price":  bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0},
				"discount":     bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": 0},
				"order_date":   bson.M{"bsonType": "date"},
				"order_status": bson.M{"enum": statusEnum()},
				"cart_items":   bson.M{"bsonType": "array"},
			},
		},
	}
}

// statusEnum lists every stored status value, legacy aliases included.
func statusEnum() bson.A {
	out := bson.A{}
	for _, st := range models.OrderStatuses {
		for _, v := range orderflow.StoredVariants(st) {
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

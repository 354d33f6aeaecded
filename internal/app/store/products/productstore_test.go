package productstore_test

import (
	"errors"
	"testing"

	productstore "github.com/dalemusser/hekto/internal/app/store/products"
	"github.com/dalemusser/hekto/internal/app/system/indexes"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/dalemusser/hekto/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNameKey(t *testing.T) {
	tests := map[string]string{
		"Modern Chair":    "modern-chair",
		"  Wooden Sofa  ": "wooden-sofa",
		"lamp":            "lamp",
		"sofa set!":       "sofa-set",
		"Sofa-Set":        "sofa-set",
		"Café  Table":     "cafe-table",
		"!!!":             "!!!",
	}
	for in, want := range tests {
		if got := productstore.NameKey(in); got != want {
			t.Errorf("NameKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Product{
		Name:     "Modern Chair",
		Price:    120.5,
		Category: "Chairs",
		Stock:    4,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI != "modern chair" || created.NameKey != "modern-chair" {
		t.Errorf("normalized fields = %q / %q", created.NameCI, created.NameKey)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Modern Chair" || got.Stock != 4 {
		t.Errorf("GetByID = %+v", got)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, productstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStore_List_SortedByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"sofa", "Armchair", "lamp"} {
		if _, err := store.Create(ctx, models.Product{Name: name, Price: 1}); err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if list[0].Name != "Armchair" || list[2].Name != "sofa" {
		t.Errorf("order = %s, %s, %s", list[0].Name, list[1].Name, list[2].Name)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, models.Product{Name: "Desk", Price: 200, Stock: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.Update(ctx, p.ID, productstore.Fields{
		Name:     "Standing Desk",
		Price:    250,
		Category: "Office",
		Stock:    7,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.NameKey != "standing-desk" || updated.Price != 250 || updated.Stock != 7 {
		t.Errorf("Update = %+v", updated)
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), productstore.Fields{Name: "x"}); !errors.Is(err, productstore.ErrNotFound) {
		t.Errorf("update missing err = %v", err)
	}
}

func TestStore_SetImageAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p, err := store.Create(ctx, models.Product{Name: "Lamp", Price: 40, ImagePath: "old.png"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	prev, err := store.SetImage(ctx, p.ID, "new.png")
	if err != nil {
		t.Fatalf("SetImage failed: %v", err)
	}
	if prev != "old.png" {
		t.Errorf("previous image = %q, want old.png", prev)
	}

	deleted, err := store.Delete(ctx, p.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.ImagePath != "new.png" {
		t.Errorf("deleted image = %q", deleted.ImagePath)
	}
	if _, err := store.Delete(ctx, p.ID); !errors.Is(err, productstore.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestStore_Create_DuplicateNameKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := productstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Product{Name: "Sofa Set", Price: 900}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Product{Name: "sofa-set!", Price: 900}); !errors.Is(err, productstore.ErrDuplicateName) {
		t.Errorf("err = %v, want ErrDuplicateName", err)
	}
	if _, err := store.Create(ctx, models.Product{Name: "Sofa Sets", Price: 900}); err != nil {
		t.Errorf("distinct name rejected: %v", err)
	}
}

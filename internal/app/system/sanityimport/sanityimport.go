// Package sanityimport reads a CMS dataset export (NDJSON, one document per
// line) and loads its productData and order documents into the stores.
package sanityimport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dalemusser/hekto/internal/app/system/htmlsanitize"
	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/domain/models"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	TypeProduct = "productData"
	TypeOrder   = "order"

	maxLine = 4 << 20
)

// Product is a parsed productData document.
type Product struct {
	SourceID string
	Product  models.Product
}

// Order is a parsed order document. ProductRefs holds the referenced
// productData ids in cart order, repeated once per unit.
type Order struct {
	SourceID    string
	Order       models.Order
	ProductRefs []string
}

// Dataset is the importable subset of an export.
type Dataset struct {
	Products []Product
	Orders   []Order
	// Skipped counts documents of other types (assets, drafts, ...).
	Skipped  int
	Warnings []string
}

// Parse reads NDJSON. Malformed lines fail the whole parse with the line
// number; unknown document types are skipped.
func Parse(r io.Reader) (*Dataset, error) {
	ds := &Dataset{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			return nil, fmt.Errorf("sanityimport: line %d: invalid JSON", lineNo)
		}
		doc := gjson.ParseBytes(line)
		id := doc.Get("_id").String()

		// Drafts shadow published documents; only published ones are imported.
		if strings.HasPrefix(id, "drafts.") {
			ds.Skipped++
			continue
		}

		switch doc.Get("_type").String() {
		case TypeProduct:
			ds.Products = append(ds.Products, parseProduct(id, doc))
		case TypeOrder:
			o, warn := parseOrder(id, doc)
			if warn != "" {
				ds.Warnings = append(ds.Warnings, fmt.Sprintf("line %d: %s", lineNo, warn))
			}
			ds.Orders = append(ds.Orders, o)
		default:
			ds.Skipped++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sanityimport: read: %w", err)
	}
	return ds, nil
}

func parseProduct(id string, doc gjson.Result) Product {
	name := doc.Get("name").String()
	if name == "" {
		name = doc.Get("title").String()
	}
	p := models.Product{
		Name:        strings.TrimSpace(name),
		Price:       doc.Get("price").Float(),
		Description: htmlsanitize.Clean(doc.Get("description").String()),
		Category:    strings.TrimSpace(doc.Get("category").String()),
		Stock:       int(doc.Get("stock").Int()),
		ImagePath:   doc.Get("image.asset.url").String(),
	}
	if t := doc.Get("_createdAt"); t.Exists() {
		p.CreatedAt = t.Time().UTC()
	}
	if p.Stock < 0 {
		p.Stock = 0
	}
	return Product{SourceID: id, Product: p}
}

func parseOrder(id string, doc gjson.Result) (Order, string) {
	o := models.Order{
		FullName:    doc.Get("fullName").String(),
		Email:       doc.Get("email").String(),
		PhoneNumber: doc.Get("phoneNumber").String(),
		Address:     doc.Get("address").String(),
		City:        doc.Get("city").String(),
		PostalCode:  doc.Get("postalCode").String(),
		Country:     doc.Get("country").String(),
		TotalPrice:  doc.Get("totalPrice").Float(),
		Discount:    doc.Get("discount").Float(),
		CardLast4:   Last4(doc.Get("cardNumber").String()),
	}
	if t := doc.Get("orderDate"); t.Exists() {
		o.OrderDate = t.Time().UTC()
	}

	var warn string
	raw := doc.Get("orderStatus").String()
	if raw == "" {
		o.Status = models.OrderPending
	} else if st, err := orderflow.Normalize(raw); err == nil {
		o.Status = st
	} else {
		o.Status = models.OrderPending
		warn = fmt.Sprintf("order %s: unknown status %q imported as pending", id, raw)
	}

	var refs []string
	doc.Get("cartItems").ForEach(func(_, item gjson.Result) bool {
		if ref := item.Get("_ref").String(); ref != "" {
			refs = append(refs, ref)
		}
		return true
	})
	return Order{SourceID: id, Order: o, ProductRefs: refs}, warn
}

// Last4 keeps only the last four digits of a card number.
func Last4(card string) string {
	digits := make([]rune, 0, len(card))
	for _, r := range card {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return ""
	}
	return string(digits[len(digits)-4:])
}

// CartItems turns product references into cart items. Repeated references
// become one item with a higher quantity. Unresolved references are
// returned separately.
func CartItems(refs []string, products map[string]models.Product) (items []models.CartItem, missing []string) {
	index := map[string]int{}
	for _, ref := range refs {
		p, ok := products[ref]
		if !ok {
			missing = append(missing, ref)
			continue
		}
		if i, seen := index[ref]; seen {
			items[i].Quantity++
			continue
		}
		index[ref] = len(items)
		items = append(items, models.CartItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  1,
			ImagePath: p.ImagePath,
		})
	}
	return items, missing
}

/*─────────────────────────────────────────────────────────────────────────────*
| Loading into the stores                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

type productCreator interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
}

type orderCreator interface {
	Create(ctx context.Context, o models.Order) (models.Order, error)
}

// Result summarizes an import run.
type Result struct {
	Products int
	Orders   int
	Skipped  int
	Failed   []string
}

// Importer writes a parsed Dataset through the stores.
type Importer struct {
	Products productCreator
	Orders   orderCreator
	Log      *zap.Logger
}

// Import creates products first so order cart references can resolve to the
// new ids. A failing document is recorded in Result.Failed and the run
// continues; only context cancellation stops it early.
func (im *Importer) Import(ctx context.Context, ds *Dataset) (Result, error) {
	res := Result{Skipped: ds.Skipped}
	for _, w := range ds.Warnings {
		im.Log.Warn("import warning", zap.String("detail", w))
	}

	bySource := make(map[string]models.Product, len(ds.Products))
	for _, sp := range ds.Products {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		created, err := im.Products.Create(ctx, sp.Product)
		if err != nil {
			res.Failed = append(res.Failed, fmt.Sprintf("product %s (%s): %v", sp.SourceID, sp.Product.Name, err))
			im.Log.Warn("product import failed", zap.String("source_id", sp.SourceID), zap.Error(err))
			continue
		}
		bySource[sp.SourceID] = created
		res.Products++
	}

	for _, so := range ds.Orders {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		o := so.Order
		items, missing := CartItems(so.ProductRefs, bySource)
		o.CartItems = items
		if len(missing) > 0 {
			im.Log.Warn("order references unknown products",
				zap.String("source_id", so.SourceID),
				zap.Strings("refs", missing))
		}
		if _, err := im.Orders.Create(ctx, o); err != nil {
			res.Failed = append(res.Failed, fmt.Sprintf("order %s: %v", so.SourceID, err))
			im.Log.Warn("order import failed", zap.String("source_id", so.SourceID), zap.Error(err))
			continue
		}
		res.Orders++
	}

	im.Log.Info("import finished",
		zap.Int("products", res.Products),
		zap.Int("orders", res.Orders),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", len(res.Failed)))
	return res, nil
}

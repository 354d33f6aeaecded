package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/hekto/internal/app/features/errors"
	"github.com/dalemusser/hekto/internal/app/system/docschema"
	"github.com/dalemusser/hekto/internal/app/system/sanityimport"
	"github.com/dalemusser/hekto/internal/app/system/timeouts"
	"github.com/dalemusser/hekto/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// orderDoc is the storefront checkout payload. Card expiry and CVC may be
// present in the payload; they have no field here and are dropped. The
// schema only admits orderStatus "pending", and new orders always start
// there whatever the client sends.
type orderDoc struct {
	FullName    string        `json:"fullName"`
	Email       string        `json:"email"`
	PhoneNumber string        `json:"phoneNumber"`
	Address     string        `json:"address"`
	City        string        `json:"city"`
	PostalCode  string        `json:"postalCode"`
	Country     string        `json:"country"`
	CartItems   []cartItemDoc `json:"cartItems"`
	TotalPrice  float64       `json:"totalPrice"`
	Discount    float64       `json:"discount"`
	OrderDate   string        `json:"orderDate"`
	CardNumber  string        `json:"cardNumber"`
}

type cartItemDoc struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// toOrder maps a cleaned, validated document onto the stored order shape.
func (d orderDoc) toOrder() (models.Order, error) {
	var placed time.Time
	if d.OrderDate != "" {
		t, err := time.Parse(time.RFC3339, d.OrderDate)
		if err != nil {
			return models.Order{}, err
		}
		placed = t.UTC()
	}

	items := make([]models.CartItem, 0, len(d.CartItems))
	for _, it := range d.CartItems {
		ci := models.CartItem{
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			ImagePath: it.Image,
		}
		if ci.Quantity <= 0 {
			ci.Quantity = 1
		}
		if oid, err := primitive.ObjectIDFromHex(it.ProductID); err == nil {
			ci.ProductID = oid
		}
		items = append(items, ci)
	}

	return models.Order{
		FullName:    d.FullName,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		Address:     d.Address,
		City:        d.City,
		PostalCode:  d.PostalCode,
		Country:     d.Country,
		CartItems:   items,
		TotalPrice:  d.TotalPrice,
		Discount:    d.Discount,
		CardLast4:   sanityimport.Last4(d.CardNumber),
		OrderDate:   placed,
		Status:      models.OrderPending,
	}, nil
}

// HandleCreateOrder handles POST /api/orders from the storefront checkout.
func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if errors.Is(err, errBodyTooLarge) {
		uierrors.WriteJSON(w, http.StatusRequestEntityTooLarge, "Request body too large.")
		return
	}
	if err != nil {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Could not read request body.")
		return
	}

	data, err = h.Schemas.CleanOrder(data)
	if err != nil {
		var ve *docschema.ValidationError
		if errors.As(err, &ve) {
			uierrors.WriteJSONFields(w, http.StatusBadRequest, "Invalid order.", ve.Fields)
			return
		}
		h.Log.Error("validate order", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not validate order.")
		return
	}

	var doc orderDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Invalid order.")
		return
	}
	o, err := doc.toOrder()
	if err != nil {
		uierrors.WriteJSON(w, http.StatusBadRequest, "Invalid order.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Orders.Create(ctx, o)
	if err != nil {
		h.Log.Error("create order", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusInternalServerError, "Could not save order.")
		return
	}
	h.Log.Info("order received",
		zap.String("order_id", created.ID.Hex()),
		zap.Int("items", created.ItemCount()),
		zap.Float64("total", created.TotalPrice))
	writeJSON(w, http.StatusCreated, created)
}

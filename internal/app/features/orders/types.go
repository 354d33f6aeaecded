package orders

import (
	"github.com/dalemusser/hekto/internal/app/system/format"
	"github.com/dalemusser/hekto/internal/app/system/orderflow"
	"github.com/dalemusser/hekto/internal/app/system/viewdata"
	"github.com/dalemusser/hekto/internal/domain/models"
)

const listPath = "/admin/orders"

type statusOption struct {
	Value string
	Label string
}

type filterTab struct {
	Value  string
	Label  string
	Count  int
	Active bool
}

type orderRow struct {
	ID          string
	Customer    string
	Email       string
	Date        string
	Items       int
	Total       string
	Status      string
	StatusClass string
	Next        []statusOption
}

type listData struct {
	viewdata.BaseVM
	Filter    string
	Tabs      []filterTab
	Rows      []orderRow
	ReturnURL string
}

type itemRow struct {
	Name     string
	Quantity int
	Price    string
	Subtotal string
	ImageURL string
}

type historyRow struct {
	From      string
	To        string
	ChangedBy string
	ChangedAt string
}

type detailData struct {
	viewdata.BaseVM
	ID          string
	FullName    string
	Email       string
	Phone       string
	Address     string
	City        string
	PostalCode  string
	Country     string
	CardLast4   string
	Date        string
	Subtotal    string
	Discount    string
	Total       string
	Status      string
	StatusClass string
	Terminal    bool
	Next        []statusOption
	Items       []itemRow
	History     []historyRow
	ReturnURL   string
}

func nextOptions(status string) []statusOption {
	next := orderflow.Next(status)
	out := make([]statusOption, 0, len(next))
	for _, s := range next {
		out = append(out, statusOption{Value: s, Label: format.StatusLabel(s)})
	}
	return out
}

func rowFor(o models.Order) orderRow {
	st := orderflow.Current(o.Status)
	return orderRow{
		ID:          o.ID.Hex(),
		Customer:    o.FullName,
		Email:       o.Email,
		Date:        format.Date(o.OrderDate),
		Items:       o.ItemCount(),
		Total:       format.Money(o.TotalPrice),
		Status:      format.StatusLabel(st),
		StatusClass: format.StatusClass(st),
		Next:        nextOptions(st),
	}
}

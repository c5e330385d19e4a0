package checkout

import (
	"time"
)

// OrderRecord is one past order with its frozen line items.
type OrderRecord struct {
	OrderID    uint        `json:"order_id"`
	OrderDate  time.Time   `json:"order_date"`
	TotalCents int64       `json:"total_cents"`
	Items      []OrderLine `json:"items"`
}

type OrderLine struct {
	LineNum    int    `json:"line_num"`
	ItemID     uint   `json:"item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// History groups the user's order item rows, which arrive sorted by order
// id and line number, into one record per order.
func (s *Service) History(username string) ([]OrderRecord, error) {
	if _, err := s.store.GetUser(username); err != nil {
		return nil, err
	}
	rows, err := s.store.HistoryRows(username)
	if err != nil {
		return nil, err
	}

	var records []OrderRecord
	for _, row := range rows {
		if len(records) == 0 || records[len(records)-1].OrderID != row.OrderID {
			records = append(records, OrderRecord{OrderID: row.OrderID, OrderDate: row.OrderDate})
		}
		rec := &records[len(records)-1]
		rec.Items = append(rec.Items, OrderLine{
			LineNum:    row.LineNum,
			ItemID:     row.ItemID,
			Name:       row.Name,
			Quantity:   row.Quantity,
			PriceCents: row.PriceCents,
		})
		rec.TotalCents += row.PriceCents * int64(row.Quantity)
	}
	return records, nil
}

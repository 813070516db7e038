// Package journal persists executed fills outside the hot path. It is an
// opt-in sink for the risk guardian service; the pipeline core keeps no
// durable state.
package journal

import (
	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"main/internal/model"
	"main/pkg/conn"
)

// Fill is one executed order as recorded after risk approval.
type Fill struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     string `gorm:"index"`
	Symbol      string `gorm:"index"`
	Side        string
	Quantity    float64
	Price       float64
	TimestampNs int64
}

// Store appends fills to PostgreSQL.
type Store struct {
	db *gorm.DB
}

// Open connects with the given DSN and migrates the fill table.
func Open(dsn string) (*Store, error) {
	db, err := conn.Open(conn.Option{ConnString: dsn})
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	if err := db.AutoMigrate(&Fill{}); err != nil {
		return nil, errors.Wrap(err, "migrate fill table")
	}
	return &Store{db: db}, nil
}

// Append records one approved, executed order.
func (s *Store) Append(order model.Order) error {
	if s == nil {
		return nil
	}
	fill := Fill{
		OrderID:     order.OrderID,
		Symbol:      order.Symbol,
		Side:        order.Side.String(),
		Quantity:    order.Quantity,
		Price:       order.Price,
		TimestampNs: order.TimestampNs,
	}
	if err := s.db.Create(&fill).Error; err != nil {
		return errors.Wrap(err, "insert fill")
	}
	return nil
}

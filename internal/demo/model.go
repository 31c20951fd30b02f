package demo

import "time"

// Item is one demo record.
type Item struct {
	ID        uint      `json:"id"        gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name"      gorm:"column:name;not null;size:100"`
	Category  string    `json:"category"  gorm:"column:category;not null;size:50;index"`
	PriceCts  int64     `json:"price"     gorm:"column:price_cents;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
}

// TableName maps Item to the items table.
func (Item) TableName() string {
	return "items"
}

// Categories assigned round-robin by Seed.
var Categories = []string{"books", "games", "music", "tools"}

// Record converts the item to the schemaless record item templates receive.
func (i Item) Record() map[string]any {
	return map[string]any{
		"id":       i.ID,
		"name":     i.Name,
		"category": i.Category,
		"price":    i.PriceCts,
	}
}

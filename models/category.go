package models

// Category labels bills for grouping. Names are unique across live and
// deleted rows because the column carries the index.
type Category struct {
	Base
	Name        string `json:"name" gorm:"size:64;not null;uniqueIndex"`
	Description string `json:"description" gorm:"size:255"`
}

func (Category) TableName() string {
	return "categories"
}

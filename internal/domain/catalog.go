package domain

// Ingredient and Tag are shared reference data; recipes point at them but never own them.

type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

type Tag struct {
	ID    int64   `json:"id" gorm:"primaryKey"`
	Name  string  `json:"name" gorm:"size:200;not null;uniqueIndex"`
	Color *string `json:"color" gorm:"size:7;uniqueIndex;check:LENGTH(color) = 7 AND color LIKE '#%'"`
	Slug  *string `json:"slug" gorm:"size:200;uniqueIndex"`
}

func (Tag) TableName() string {
	return "tags"
}

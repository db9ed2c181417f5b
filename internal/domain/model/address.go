package model

// Address is embedded into orders with a billing_ or shipping_ prefix.
type Address struct {
	Address1 string `gorm:"column:address1;type:text;not null" json:"address1"`
	Address2 string `gorm:"column:address2;type:text" json:"address2"`
	City     string `gorm:"column:city;type:varchar(60);not null" json:"city"`
	State    string `gorm:"column:state;type:varchar(60);not null" json:"state"`
	Zip      int    `gorm:"column:zip;not null" json:"zip"`
}

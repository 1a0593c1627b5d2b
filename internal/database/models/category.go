package models

type Category struct {
	Base
	Name        string `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string `gorm:"size:200" json:"description"`
	IconEmoji   string `gorm:"size:10" json:"icon_emoji"`
	ColorHex    string `gorm:"size:7" json:"color_hex"`
	Active      bool   `gorm:"not null" json:"active"`
}

func (Category) TableName() string {
	return "categories"
}

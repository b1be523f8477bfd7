package model

type Achievement struct {
	BaseModel
	UserID   uint   `gorm:"index;not null;uniqueIndex:idx_user_achievement" json:"userId"`
	Code     string `gorm:"size:50;not null;uniqueIndex:idx_user_achievement" json:"code"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Icon     string `gorm:"size:255" json:"icon"`
	EarnedXP int    `gorm:"default:0" json:"earnedXp"`
}

func (Achievement) TableName() string {
	return "achievements"
}

package model

import "time"

// Checkin 每日签到记录，用于连续学习天数统计
type Checkin struct {
	BaseModel
	UserID    uint      `gorm:"index;not null" json:"userId"`
	CheckinAt time.Time `gorm:"index;not null" json:"checkinAt"`
}

func (Checkin) TableName() string {
	return "checkins"
}

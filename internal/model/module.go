package model

type ModuleLevel string

const (
	Beginner     ModuleLevel = "beginner"
	Intermediate ModuleLevel = "intermediate"
	Advanced     ModuleLevel = "advanced"
	Expert       ModuleLevel = "expert"
)

// LevelOrder 等级的线性顺序，用于校验与前端展示
var LevelOrder = []ModuleLevel{Beginner, Intermediate, Advanced, Expert}

func IsValidLevel(level ModuleLevel) bool {
	for _, l := range LevelOrder {
		if l == level {
			return true
		}
	}
	return false
}

// Module 一个学习模块（markdown 课程 + 测验题集）
// 同一 level 内 OrderIndex 从 1 开始连续递增，解锁按此顺序线性判定。
// Prerequisites 仅作为展示用元数据，不参与解锁判定。
type Module struct {
	BaseModel
	Level           ModuleLevel `gorm:"size:20;index;not null" json:"level"`
	OrderIndex      int         `gorm:"not null;index" json:"orderIndex"`
	Title           string      `gorm:"size:255;not null" json:"title"`
	Description     string      `gorm:"type:text" json:"description"`
	Content         string      `gorm:"type:longtext" json:"content,omitempty"` // markdown 正文
	Objectives      []string    `gorm:"type:json;serializer:json" json:"objectives"`
	DurationMinutes int         `gorm:"default:0" json:"durationMinutes"`
	Published       bool        `gorm:"default:false;index" json:"published"`
	Prerequisites   []uint      `gorm:"type:json;serializer:json" json:"prerequisites,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

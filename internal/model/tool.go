package model

// AITool 工具目录条目
type AITool struct {
	BaseModel
	Name        string   `gorm:"size:100;not null" json:"name"`
	Slug        string   `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Category    string   `gorm:"size:50;index" json:"category"`
	Tagline     string   `gorm:"size:255" json:"tagline"`
	Description string   `gorm:"type:text" json:"description"`
	WebsiteURL  string   `gorm:"size:255" json:"websiteUrl"`
	LogoURL     string   `gorm:"size:255" json:"logoUrl"`
	Pricing     string   `gorm:"size:20;index" json:"pricing"` // free, freemium, paid
	Tags        []string `gorm:"type:json;serializer:json" json:"tags"`
	Featured    bool     `gorm:"default:false;index" json:"featured"`
	Published   bool     `gorm:"default:false;index" json:"published"`
	Clicks      int      `gorm:"default:0" json:"clicks"`
}

func (AITool) TableName() string {
	return "ai_tools"
}

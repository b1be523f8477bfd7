package model

// QuizOption 单个选项；Correct 仅服务端评分用，学生端响应不携带
type QuizOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// QuizQuestion 归属于唯一模块的测验题
type QuizQuestion struct {
	BaseModel
	ModuleID    uint         `gorm:"index;not null" json:"moduleId"`
	Content     string       `gorm:"type:text;not null" json:"content"`
	Options     []QuizOption `gorm:"type:json;serializer:json" json:"options"`
	Explanation string       `gorm:"type:text" json:"explanation"`
	Difficulty  string       `gorm:"size:20" json:"difficulty"`
	Topic       string       `gorm:"size:100;index" json:"topic"`
	Active      bool         `gorm:"default:true;index" json:"active"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// CorrectOption 返回唯一正确选项的文本。
// 零个或多个正确项属于数据错误，返回 ok=false，抽题时跳过。
func (q *QuizQuestion) CorrectOption() (string, bool) {
	found := ""
	count := 0
	for _, opt := range q.Options {
		if opt.Correct {
			found = opt.Text
			count++
		}
	}
	if count != 1 {
		return "", false
	}
	return found, true
}

package model

// QuizAttempt 一次下发的题集快照。
// 评分分母取快照大小，提交的答案只允许引用快照内的题。
// UserID 为 0 表示匿名开卷，提交时登录用户可以认领。
type QuizAttempt struct {
	BaseModel
	Token       string `gorm:"size:36;uniqueIndex;not null" json:"token"`
	UserID      uint   `gorm:"index" json:"userId"`
	ModuleID    uint   `gorm:"index;not null" json:"moduleId"`
	QuestionIDs []uint `gorm:"type:json;serializer:json" json:"questionIds"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// Contains 判断题目是否属于本次下发的快照
func (a *QuizAttempt) Contains(questionID uint) bool {
	for _, id := range a.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

package service

import (
	"ailearn_backend/internal/model"
	"ailearn_backend/internal/repository"
	"ailearn_backend/internal/util"
	"ailearn_backend/pkg/logger"
	"ailearn_backend/pkg/monitoring"
	"errors"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// PassThreshold 通过线（含），百分制
	PassThreshold = 90
	// PointsPerModule 每个模块首次通过的固定加分
	PointsPerModule = 50
	// DefaultQuizSize 默认抽题数
	DefaultQuizSize = 10
)

type QuizService struct {
	ModuleRepo     *repository.ModuleRepository
	QuestionRepo   *repository.QuestionRepository
	AttemptRepo    *repository.AttemptRepository
	ProgressRepo   *repository.ProgressRepository
	AchievementSvc *AchievementService
	ProgressSvc    *ProgressService
}

func NewQuizService(
	moduleRepo *repository.ModuleRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	progressRepo *repository.ProgressRepository,
	achievementSvc *AchievementService,
	progressSvc *ProgressService,
) *QuizService {
	return &QuizService{
		ModuleRepo:     moduleRepo,
		QuestionRepo:   questionRepo,
		AttemptRepo:    attemptRepo,
		ProgressRepo:   progressRepo,
		AchievementSvc: achievementSvc,
		ProgressSvc:    progressSvc,
	}
}

// StudentQuizQuestion 发给学生端的题目，不携带正确项标记
type StudentQuizQuestion struct {
	ID         uint     `json:"id"`
	Content    string   `json:"content"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
	Topic      string   `json:"topic"`
}

// QuizStart 开卷响应：题集快照的句柄 + 题目
type QuizStart struct {
	AttemptID string                `json:"attemptId"`
	Questions []StudentQuizQuestion `json:"questions"`
}

type QuizAnswer struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Selected   string `json:"selected"`
}

type QuizSubmission struct {
	AttemptID string       `json:"attemptId" binding:"required"`
	Answers   []QuizAnswer `json:"answers" binding:"required"`
}

type QuizResult struct {
	Passed         bool     `json:"passed"`
	Score          int      `json:"score"`
	CorrectCount   int      `json:"correctCount"`
	TotalQuestions int      `json:"totalQuestions"`
	FailedTopics   []string `json:"failedTopics,omitempty"`
	PointsAwarded  int      `json:"pointsAwarded"`
	TotalPoints    int      `json:"totalPoints"`
}

// gradableQuestions 过滤掉正确项数不为 1 的脏数据题
func gradableQuestions(questions []model.QuizQuestion) []model.QuizQuestion {
	out := make([]model.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if _, ok := q.CorrectOption(); !ok {
			logger.Log.Warn("skipping question with invalid correct-option count",
				zap.Uint("questionId", q.ID), zap.Uint("moduleId", q.ModuleID))
			continue
		}
		out = append(out, q)
	}
	return out
}

// quizSize 一次测验的题数：激活题不足默认题数时全部下发
func quizSize(activeCount, requested int) int {
	if requested <= 0 {
		requested = DefaultQuizSize
	}
	if activeCount < requested {
		return activeCount
	}
	return requested
}

// StartQuiz 从模块的激活题集中随机抽题并持久化本次下发的快照。
// 评分以快照为准：分母等于快照大小，提交只允许引用快照内的题。
func (s *QuizService) StartQuiz(userID, moduleID uint, count int) (*QuizStart, error) {
	if _, err := s.ModuleRepo.FindPublishedByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	questions, err := s.QuestionRepo.FindActiveByModule(moduleID)
	if err != nil {
		return nil, err
	}
	questions = gradableQuestions(questions)
	if len(questions) == 0 {
		return nil, util.ErrNoActiveQuestions
	}

	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	questions = questions[:quizSize(len(questions), count)]

	attempt := &model.QuizAttempt{
		Token:       uuid.New().String(),
		UserID:      userID,
		ModuleID:    moduleID,
		QuestionIDs: make([]uint, len(questions)),
	}
	out := make([]StudentQuizQuestion, len(questions))
	for i, q := range questions {
		options := make([]string, len(q.Options))
		for j, opt := range q.Options {
			options[j] = opt.Text
		}
		out[i] = StudentQuizQuestion{
			ID:         q.ID,
			Content:    q.Content,
			Options:    options,
			Difficulty: q.Difficulty,
			Topic:      q.Topic,
		}
		attempt.QuestionIDs[i] = q.ID
	}

	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}

	return &QuizStart{AttemptID: attempt.Token, Questions: out}, nil
}

// Grade 纯评分：给定题集与最终答案，计算百分比得分与答错题的去重 topic。
// 题集中未作答的题按答错计。
func Grade(questions []model.QuizQuestion, answers map[uint]string, total int) (score, correctCount int, failedTopics []string) {
	seenTopic := make(map[string]bool)
	for _, q := range questions {
		correct, _ := q.CorrectOption()
		selected, answered := answers[q.ID]
		if answered && selected == correct {
			correctCount++
			continue
		}
		if q.Topic != "" && !seenTopic[q.Topic] {
			seenTopic[q.Topic] = true
			failedTopics = append(failedTopics, q.Topic)
		}
	}
	if total <= 0 {
		return 0, 0, nil
	}
	score = int(math.Round(100 * float64(correctCount) / float64(total)))
	return score, correctCount, failedTopics
}

// SubmitQuiz 按开卷快照评分，通过时落进度。
// 校验：attemptId 必须指向本模块的快照且归属当前用户（匿名开的卷登录后可提交）；
// 答案只能引用快照内的题且不重复；缺失的答案按答错计（分母固定为快照大小）。
func (s *QuizService) SubmitQuiz(userID, moduleID uint, submission QuizSubmission) (*QuizResult, error) {
	module, err := s.ModuleRepo.FindPublishedByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	attempt, err := s.AttemptRepo.FindByToken(submission.AttemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidSubmission
		}
		return nil, err
	}
	if attempt.ModuleID != moduleID {
		return nil, util.ErrInvalidSubmission
	}
	if attempt.UserID != 0 && attempt.UserID != userID {
		return nil, util.ErrInvalidSubmission
	}

	served, err := s.QuestionRepo.FindByIDs(attempt.QuestionIDs)
	if err != nil {
		return nil, err
	}
	served = gradableQuestions(served)
	if len(served) == 0 {
		return nil, util.ErrNoActiveQuestions
	}

	byID := make(map[uint]model.QuizQuestion, len(served))
	for _, q := range served {
		byID[q.ID] = q
	}

	// 分母是下发的题数；开卷后被下架/删除的题按快照大小照常计入
	total := len(attempt.QuestionIDs)

	answers := make(map[uint]string, len(submission.Answers))
	answered := make([]model.QuizQuestion, 0, len(submission.Answers))
	for _, a := range submission.Answers {
		if !attempt.Contains(a.QuestionID) {
			return nil, util.ErrInvalidSubmission
		}
		if _, dup := answers[a.QuestionID]; dup {
			return nil, util.ErrInvalidSubmission
		}
		answers[a.QuestionID] = a.Selected
		if q, ok := byID[a.QuestionID]; ok {
			answered = append(answered, q)
		}
	}

	score, correctCount, failedTopics := Grade(answered, answers, total)

	result := &QuizResult{
		Passed:         score >= PassThreshold,
		Score:          score,
		CorrectCount:   correctCount,
		TotalQuestions: total,
	}

	if !result.Passed {
		monitoring.QuizSubmissions.WithLabelValues("failed").Inc()
		result.FailedTopics = failedTopics
		return result, nil
	}

	monitoring.QuizSubmissions.WithLabelValues("passed").Inc()

	progress, newlyCompleted, err := s.ProgressRepo.RecordPass(userID, moduleID, score, PointsPerModule)
	if err != nil {
		return nil, err
	}
	if newlyCompleted {
		result.PointsAwarded = PointsPerModule
	}
	result.TotalPoints = progress.TotalPoints

	if err := s.advanceLevel(progress, module.Level); err != nil {
		logger.Log.Error("failed to advance learner level", zap.Uint("userId", userID), zap.Error(err))
	}

	s.ProgressSvc.InvalidateCache(userID)

	if newlyCompleted {
		if err := s.AchievementSvc.OnModulePassed(userID, progress, module.Level); err != nil {
			// 成就失败不影响测验结果
			logger.Log.Error("achievement evaluation failed", zap.Uint("userId", userID), zap.Error(err))
		}
	}

	return result, nil
}

// advanceLevel 当前等级的已发布模块全部通过时推进到下一等级
func (s *QuizService) advanceLevel(progress *model.LearnerProgress, level model.ModuleLevel) error {
	if progress.CurrentLevel != level {
		return nil
	}

	modules, err := s.ModuleRepo.FindPublishedByLevel(level)
	if err != nil {
		return err
	}
	for _, m := range modules {
		if !progress.HasCompleted(m.ID) {
			return nil
		}
	}

	for i, l := range model.LevelOrder {
		if l == level && i+1 < len(model.LevelOrder) {
			progress.CurrentLevel = model.LevelOrder[i+1]
			return s.ProgressRepo.Save(progress)
		}
	}
	return nil
}

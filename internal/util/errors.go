package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrModuleNotFound     = errors.New("module not found")
	ErrModuleLocked       = errors.New("module locked")
	ErrNoActiveQuestions  = errors.New("no active questions for module")
	ErrInvalidSubmission  = errors.New("submission references questions outside the module")
	ErrToolNotFound       = errors.New("tool not found")
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

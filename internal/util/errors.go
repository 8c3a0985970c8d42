package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrTestNotFound         = errors.New("test not found")
	ErrTestLocked           = errors.New("this test is locked, complete previous tests to unlock")
	ErrTestNotPurchased     = errors.New("you must purchase this test first")
	ErrQuizAlreadyAttempted = errors.New("you have already attempted this weekly quiz, only one attempt is allowed")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrTestAlreadySubmitted = errors.New("this test has already been submitted")
	ErrNotFullLengthTest    = errors.New("only full-length tests can be purchased")
	ErrAlreadyPurchased     = errors.New("this test is already purchased")
	ErrSubmissionNotFinal   = errors.New("submission is not completed yet")
	ErrEmptyRevisionLog     = errors.New("no questions in revision log")
)

// InsufficientPointsError 积分不足，携带所需/现有积分供前端展示
type InsufficientPointsError struct {
	Required  int
	Available int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient reward points: required %d, available %d", e.Required, e.Available)
}

package service

import (
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseInsufficientPoints(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 0)
	card := env.createCard(t, "full_buy_poor", model.FullLength, 1, 10, 0)

	_, err := env.unlockSvc.Purchase(user.ID, card.ID)
	require.Error(t, err)

	var insufficientErr *util.InsufficientPointsError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 10, insufficientErr.Required)
	assert.Equal(t, 0, insufficientErr.Available)

	// 失败后余额与解锁状态都不变
	assert.Equal(t, 0, env.userPoints(t, user.ID))
	exists, err := env.unlocks.Exists(user.ID, card.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPurchaseDebitsAndUnlocks(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 50)
	card := env.createCard(t, "full_buy", model.FullLength, 1, 10, 0)

	result, err := env.unlockSvc.Purchase(user.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, result.RemainingPoints)
	assert.False(t, result.UnlockedAt.IsZero())

	assert.Equal(t, 40, env.userPoints(t, user.ID))
	exists, err := env.unlocks.Exists(user.ID, card.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	// 已解锁时重复购买被拒绝，不重复扣分
	_, err = env.unlockSvc.Purchase(user.ID, card.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyPurchased)
	assert.Equal(t, 40, env.userPoints(t, user.ID))
}

func TestPurchaseRejectsNonFullLength(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 50)
	card := env.createCard(t, "sub_buy", model.SubjectWise, 1, 10, 0)

	_, err := env.unlockSvc.Purchase(user.ID, card.ID)
	assert.ErrorIs(t, err, util.ErrNotFullLengthTest)
	assert.Equal(t, 50, env.userPoints(t, user.ID))
}

func TestPurchaseUnknownTest(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 50)

	_, err := env.unlockSvc.Purchase(user.ID, "no_such_test")
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestListWithStatus(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 0)
	first := env.createCard(t, "sub_list_1", model.SubjectWise, 1, 0, 0)
	second := env.createCard(t, "sub_list_2", model.SubjectWise, 2, 0, 0)
	third := env.createCard(t, "sub_list_3", model.SubjectWise, 3, 0, 0)

	_, err := env.unlocks.GetOrCreate(env.db, user.ID, second.ID)
	require.NoError(t, err)

	cards, err := env.unlockSvc.ListWithStatus(user.ID, "sub_exam_1", model.SubjectWise)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	byID := make(map[string]TestCardStatus, len(cards))
	for _, card := range cards {
		byID[card.ID] = card
	}
	assert.True(t, byID[first.ID].Unlocked, "first test is always unlocked")
	assert.True(t, byID[second.ID].Unlocked, "unlock record grants access")
	assert.False(t, byID[third.ID].Unlocked)
}

func TestCheckUnlockStatus(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 15)
	subject := env.createCard(t, "sub_status_1", model.SubjectWise, 1, 0, 0)
	full := env.createCard(t, "full_status", model.FullLength, 1, 10, 0)
	challenge := env.createCard(t, "challenge_status", model.Challenge, 1, 0, 5)

	status, err := env.unlockSvc.CheckStatus(user.ID, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, "progression", status.UnlockType)
	assert.True(t, status.IsUnlocked, "first subject test is always unlocked")

	status, err = env.unlockSvc.CheckStatus(user.ID, full.ID)
	require.NoError(t, err)
	assert.Equal(t, "purchase", status.UnlockType)
	assert.False(t, status.IsUnlocked)
	assert.Equal(t, 10, status.PricePoints)
	assert.Equal(t, 15, status.UserPoints)
	assert.True(t, status.CanAfford)

	_, err = env.unlockSvc.Purchase(user.ID, full.ID)
	require.NoError(t, err)

	status, err = env.unlockSvc.CheckStatus(user.ID, full.ID)
	require.NoError(t, err)
	assert.True(t, status.IsUnlocked)
	assert.Equal(t, 5, status.UserPoints)
	assert.False(t, status.CanAfford)

	status, err = env.unlockSvc.CheckStatus(user.ID, challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, "special", status.UnlockType)
	assert.True(t, status.IsUnlocked)

	_, err = env.unlockSvc.CheckStatus(user.ID, "no_such_test")
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}

func TestCanStartChallengeAlways(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 0)
	card := env.createCard(t, "challenge_any", model.Challenge, 1, 0, 5)

	ok, err := env.unlockSvc.CanStart(user.ID, card)
	require.NoError(t, err)
	assert.True(t, ok)
}

package providers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDo_ErfolgBeimErstenVersuch(t *testing.T) {
	calls := 0
	result, ok := Do(zap.NewNop(), "op", RetryPolicy{MaxAttempts: 3}, EmptyString, func() (string, error) {
		calls++
		return "wert", nil
	})

	assert.True(t, ok)
	assert.Equal(t, "wert", result)
	assert.Equal(t, 1, calls)
}

func TestDo_WiederholtNachFehler(t *testing.T) {
	calls := 0
	result, ok := Do(zap.NewNop(), "op", RetryPolicy{MaxAttempts: 3}, EmptyString, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("upstream kaputt")
		}
		return "wert", nil
	})

	assert.True(t, ok)
	assert.Equal(t, "wert", result)
	assert.Equal(t, 3, calls)
}

func TestDo_LeeresErgebnisZaehltAlsFehlschlag(t *testing.T) {
	calls := 0
	result, ok := Do(zap.NewNop(), "op", RetryPolicy{MaxAttempts: 2}, EmptySlice[int], func() ([]int, error) {
		calls++
		if calls == 1 {
			return nil, nil
		}
		return []int{7}, nil
	})

	assert.True(t, ok)
	assert.Equal(t, []int{7}, result)
	assert.Equal(t, 2, calls)
}

func TestDo_ErschoepfungLiefertNullwert(t *testing.T) {
	calls := 0
	result, ok := Do(zap.NewNop(), "op", RetryPolicy{MaxAttempts: 3}, EmptyString, func() (string, error) {
		calls++
		return "", errors.New("dauerhaft kaputt")
	})

	assert.False(t, ok)
	assert.Equal(t, "", result)
	assert.Equal(t, 3, calls)
}

func TestDo_MindestensEinVersuch(t *testing.T) {
	calls := 0
	_, ok := Do(zap.NewNop(), "op", RetryPolicy{MaxAttempts: 0}, EmptyString, func() (string, error) {
		calls++
		return "wert", nil
	})

	assert.True(t, ok)
	assert.Equal(t, 1, calls)
}

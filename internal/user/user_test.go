package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWeeklyGoal(t *testing.T) {
	assert.NoError(t, ValidateWeeklyGoal(5))
	assert.NoError(t, ValidateWeeklyGoal(20))
	assert.NoError(t, ValidateWeeklyGoal(100))

	assert.ErrorIs(t, ValidateWeeklyGoal(4), ErrInvalidWeeklyGoal)
	assert.ErrorIs(t, ValidateWeeklyGoal(101), ErrInvalidWeeklyGoal)
	assert.ErrorIs(t, ValidateWeeklyGoal(0), ErrInvalidWeeklyGoal)
	assert.ErrorIs(t, ValidateWeeklyGoal(-1), ErrInvalidWeeklyGoal)
}

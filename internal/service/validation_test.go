package service

import (
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/art-studio-api/internal/models"
	appErrors "github.com/noah-isme/art-studio-api/pkg/errors"
)

func TestNewValidatorConcurrentConstruction(t *testing.T) {
	const workers = 16
	got := make([]*validator.Validate, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = NewValidator()
			NewAuthService(&mockAuthRepo{}, nil, nil, AuthConfig{})
			NewGroupService(newMemoryGroupRepo(), nil, nil, nil, nil, GroupServiceConfig{})
		}(i)
	}
	wg.Wait()

	for _, v := range got {
		assert.Same(t, got[0], v)
	}
}

func TestStructErrorNamesJSONField(t *testing.T) {
	err := structError(NewValidator().Struct(models.LoginRequest{Password: "x"}), "invalid login payload")
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "email", appErr.Field)
	assert.Contains(t, appErr.Message, "email")
}

func TestCheckFieldMessages(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, checkField(v, "day1", "Monday", weekdayTag))
	assert.Equal(t, "invalid day1: must be a day of the week (Monday to Sunday)", appErrors.FromError(checkField(v, "day1", "monday", weekdayTag)).Message)
	assert.Equal(t, "invalid startTime format: use HH:mm", appErrors.FromError(checkField(v, "startTime", "24:00", timeTag)).Message)
	assert.Equal(t, "missing required field: name", appErrors.FromError(checkField(v, "name", "", "required")).Message)
}

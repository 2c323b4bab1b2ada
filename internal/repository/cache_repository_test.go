package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/art-studio-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var out []string
	assert.ErrorIs(t, repo.Get(ctx, "groups:list", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "groups:list", []string{"a"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "groups:*"))
}

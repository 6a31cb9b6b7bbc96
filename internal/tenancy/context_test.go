package tenancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTenantIDRoundTrip(t *testing.T) {
	ctx := WithTenantID(context.Background(), "fitlab")
	id, ok := TenantIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "fitlab", id)
}

func TestTenantIDMissing(t *testing.T) {
	_, ok := TenantIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestTenantIDEmptyValue(t *testing.T) {
	ctx := WithTenantID(context.Background(), "")
	_, ok := TenantIDFromContext(ctx)
	assert.False(t, ok)
}

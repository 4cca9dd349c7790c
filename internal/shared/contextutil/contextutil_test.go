package contextutil_test

import (
	"context"
	"testing"

	"staffly/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestExtractMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
	ctx = contextutil.WithUserID(ctx, "UR1A2B3C4")
	ctx = contextutil.WithEmployeeID(ctx, "EMP1A2B3C4")

	md := contextutil.ExtractMetadata(ctx)

	assert.Equal(t, "REQ-1", md.RequestID)
	assert.Equal(t, "UR1A2B3C4", md.UserID)
	assert.Equal(t, "EMP1A2B3C4", md.EmployeeID)
}

func TestGetLogger_Fallbacks(t *testing.T) {
	def := zap.NewExample()
	assert.Same(t, def, contextutil.GetLogger(context.Background(), def))
	assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))

	scoped := zap.NewExample().With(zap.String("request_id", "x"))
	ctx := contextutil.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, contextutil.GetLogger(ctx, def))
}

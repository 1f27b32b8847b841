package trace

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTraceID(t *testing.T) {
	a := GenerateTraceID()
	b := GenerateTraceID()

	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithContext(context.Background(), "abc123")
	assert.Equal(t, "abc123", FromContext(ctx))
	assert.Empty(t, FromContext(context.Background()))
}

func TestFromHeader(t *testing.T) {
	assert.Equal(t, "trace", FromHeader("trace", "request"))
	assert.Equal(t, "request", FromHeader("  ", "request"))
	assert.Empty(t, FromHeader("", ""))
	assert.Len(t, FromHeader(strings.Repeat("x", 200), ""), 64)
}

func TestFromHeader_MultiByte(t *testing.T) {
	v := FromHeader("a"+strings.Repeat("é", 40), "")
	assert.True(t, utf8.ValidString(v))
	assert.Equal(t, "a"+strings.Repeat("é", 31), v)
	assert.True(t, utf8.ValidString(FromHeader("ok\xffid", "")))
}

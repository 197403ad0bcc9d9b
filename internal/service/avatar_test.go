package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGravatarURL(t *testing.T) {
	t.Parallel()

	// md5("alice@example.com")
	want := "//www.gravatar.com/avatar/c160f8cc69a4f0bf2b0362752353d060?s=200&r=pg&d=mm"
	assert.Equal(t, want, GravatarURL("alice@example.com"))
	assert.Equal(t, want, GravatarURL("  Alice@Example.COM "))
}

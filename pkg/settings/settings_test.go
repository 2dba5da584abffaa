package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCliParams(t *testing.T) {
	assert.Equal(t, &Run{ExitOnError: true}, NewCliParams())
}

func TestUserAgent(t *testing.T) {
	orig := VersionInformation
	defer func() { VersionInformation = orig }()

	VersionInformation.BuildVersion = "v1.2.3"
	assert.Equal(t, "combox/v1.2.3", UserAgent())
}

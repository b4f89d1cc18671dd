package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextReceiptCode(t *testing.T) {
	cases := map[string]string{
		"":          "MSB-0001",
		"MSB-0001":  "MSB-0002",
		"MSB-0042":  "MSB-0043",
		"MSB-0999":  "MSB-1000",
		"MSB-9999":  "MSB-10000",
		"MSB-abcd":  "MSB-0001",
		"XYZ-0042":  "MSB-0001",
		"MSB-":      "MSB-0001",
		"MSB--0004": "MSB-0001",
	}

	for latest, want := range cases {
		assert.Equal(t, want, NextReceiptCode(latest), "latest=%q", latest)
	}
}

func TestNextReceiptCodeSequence(t *testing.T) {
	code := ""
	for i := 1; i <= 12; i++ {
		code = NextReceiptCode(code)
	}
	assert.Equal(t, "MSB-0012", code)
}

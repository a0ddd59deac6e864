package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommentRequestValidatedText(t *testing.T) {
	t.Run("границы длины", func(t *testing.T) {
		cases := []struct {
			name  string
			text  string
			valid bool
		}{
			{"пустой текст", "", false},
			{"только пробелы", "   \t\n  ", false},
			{"9 символов", strings.Repeat("a", MinCommentLength-1), false},
			{"10 символов", strings.Repeat("a", MinCommentLength), true},
			{"2000 символов", strings.Repeat("a", MaxCommentLength), true},
			{"2001 символ", strings.Repeat("a", MaxCommentLength+1), false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				request := &NewCommentRequest{Text: tc.text}
				_, err := request.ValidatedText()
				if tc.valid {
					assert.NoError(t, err)
				} else {
					assert.Error(t, err)
				}
			})
		}
	})

	t.Run("длина считается в рунах, а не в байтах", func(t *testing.T) {
		request := &NewCommentRequest{Text: strings.Repeat("я", MinCommentLength)}
		text, err := request.ValidatedText()
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("я", MinCommentLength), text)
	})

	t.Run("крайние пробелы обрезаются до проверки длины", func(t *testing.T) {
		request := &NewCommentRequest{Text: "   короткий   "}
		_, err := request.ValidatedText()
		assert.Error(t, err, "8 символов после обрезки")

		request = &NewCommentRequest{Text: "  нормальный текст  "}
		text, err := request.ValidatedText()
		require.NoError(t, err)
		assert.Equal(t, "нормальный текст", text)
	})
}

func TestCommentStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusPublished.IsValid())
	assert.True(t, StatusRejected.IsValid())
	assert.True(t, StatusDeleted.IsValid())
	assert.False(t, CommentStatus("").IsValid())
	assert.False(t, CommentStatus("published").IsValid())
	assert.False(t, CommentStatus("ARCHIVED").IsValid())
}

func TestEndpointHitIsValid(t *testing.T) {
	valid := func() *EndpointHit {
		timestamp, err := time.Parse(DateTimeLayout, "2026-01-15 10:00:00")
		require.NoError(t, err)
		return &EndpointHit{App: "main-service", URI: "/events/1", IP: "192.163.0.1", Timestamp: timestamp}
	}

	assert.NoError(t, valid().IsValid())

	hit := valid()
	hit.App = "  "
	assert.Error(t, hit.IsValid())

	hit = valid()
	hit.URI = ""
	assert.Error(t, hit.IsValid())

	hit = valid()
	hit.IP = ""
	assert.Error(t, hit.IsValid())

	hit = &EndpointHit{App: "main-service", URI: "/events/1", IP: "192.163.0.1"}
	assert.Error(t, hit.IsValid(), "нулевая временная метка")
}

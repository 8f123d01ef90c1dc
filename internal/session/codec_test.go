package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")

	sess := &Session{
		GitHub:       &Identity{ID: "42", Username: "octocat"},
		TwitterState: &OAuthState{State: "abc", CodeVerifier: "def"},
	}

	value, err := codec.Encode(sess)
	require.NoError(t, err)

	decoded := codec.Decode(value)
	require.NotNil(t, decoded)
	assert.Equal(t, sess.GitHub, decoded.GitHub)
	assert.Equal(t, sess.TwitterState, decoded.TwitterState)
	assert.Nil(t, decoded.Twitter)
}

func TestCodecRejectsTamperedValue(t *testing.T) {
	codec := NewCodec("test-secret")

	value, err := codec.Encode(&Session{GitHub: &Identity{ID: "42", Username: "octocat"}})
	require.NoError(t, err)

	tampered := strings.Replace(value, "42", "43", 1)
	require.NotEqual(t, value, tampered)
	assert.Nil(t, codec.Decode(tampered))
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	value, err := NewCodec("secret-a").Encode(&Session{})
	require.NoError(t, err)

	assert.Nil(t, NewCodec("secret-b").Decode(value))
}

func TestCodecRejectsExpired(t *testing.T) {
	codec := NewCodec("test-secret")
	codec.now = func() time.Time { return time.Now().Add(-4 * 24 * time.Hour) }

	value, err := codec.Encode(&Session{GitHub: &Identity{ID: "42", Username: "octocat"}})
	require.NoError(t, err)

	fresh := NewCodec("test-secret")
	assert.Nil(t, fresh.Decode(value))
}

func TestCodecRejectsMalformed(t *testing.T) {
	codec := NewCodec("test-secret")

	for name, value := range map[string]string{
		"empty":        "",
		"no signature": "123:{}",
		"garbage":      "not-a-cookie",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, codec.Decode(value))
		})
	}

	// Valid signature over a payload that is not "<exp>:<json>".
	payload := "no-separator"
	assert.Nil(t, codec.Decode(payload+"."+codec.sign(payload)))

	payload = "notanumber:{}"
	assert.Nil(t, codec.Decode(payload+"."+codec.sign(payload)))

	payload = "99999999999:[1,2,3]"
	assert.Nil(t, codec.Decode(payload+"."+codec.sign(payload)))
}

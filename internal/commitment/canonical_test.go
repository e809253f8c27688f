package commitment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedCreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestCanonicalizeGolden(t *testing.T) {
	tests := []struct {
		name    string
		ownerID string
		content string
		at      time.Time
		loc     *Location
		want    string
	}{
		{
			name:    "no location",
			ownerID: "U1",
			content: "Hello world",
			at:      fixedCreatedAt,
			want:    `{"userId":"U1","content":"Hello world","createdAt":"2024-01-01T00:00:00.000Z","location":null}`,
		},
		{
			name:    "with location",
			ownerID: "U1",
			content: "Hello world",
			at:      fixedCreatedAt,
			loc:     &Location{Latitude: 47.6062, Longitude: -122.3321},
			want:    `{"userId":"U1","content":"Hello world","createdAt":"2024-01-01T00:00:00.000Z","location":{"latitude":47.6062,"longitude":-122.3321}}`,
		},
		{
			name:    "quotes newlines and html chars survive unescaped",
			ownerID: "U1",
			content: "say \"hi\"\n<&>",
			at:      fixedCreatedAt,
			want:    `{"userId":"U1","content":"say \"hi\"\n<&>","createdAt":"2024-01-01T00:00:00.000Z","location":null}`,
		},
		{
			name:    "millisecond precision",
			ownerID: "U1",
			content: "x",
			at:      time.Date(2024, 6, 15, 13, 37, 42, 123_000_000, time.UTC),
			want:    `{"userId":"U1","content":"x","createdAt":"2024-06-15T13:37:42.123Z","location":null}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonicalize(tt.ownerID, tt.content, tt.at, tt.loc))
		})
	}
}

func TestDigestGolden(t *testing.T) {
	digest := Digest("U1", "Hello world", fixedCreatedAt, nil)
	assert.Equal(t, "8e30a44a21a7a771155726da2f045f58d5c8bfc10f3e13a8d7aedfd55b4037c1", digest)

	withLoc := Digest("U1", "Hello world", fixedCreatedAt, &Location{Latitude: 47.6062, Longitude: -122.3321})
	assert.Equal(t, "25ff1ab6743280e33fae52e5b27c2da97cfeb0d17038b718707d068728e976d6", withLoc)
}

func TestDigestDeterminism(t *testing.T) {
	loc := &Location{Latitude: 1.5, Longitude: -2.25}
	first := Digest("owner", "some content", fixedCreatedAt, loc)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Digest("owner", "some content", fixedCreatedAt, loc))
	}
}

func TestDigestNormalizesTimezone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*60*60)
	local := time.Date(2024, 1, 1, 5, 0, 0, 0, zone) // same instant as fixedCreatedAt
	require.True(t, local.Equal(fixedCreatedAt))

	assert.Equal(t,
		Digest("U1", "Hello world", fixedCreatedAt, nil),
		Digest("U1", "Hello world", local, nil))
}

func TestDigestSensitivity(t *testing.T) {
	content := "The quick brown fox jumps over the lazy dog"
	base := Digest("U1", content, fixedCreatedAt, nil)

	// Any single-byte change to the content must change the digest.
	for i := 0; i < len(content); i++ {
		mutated := []byte(content)
		mutated[i] ^= 0x01
		assert.NotEqual(t, base, Digest("U1", string(mutated), fixedCreatedAt, nil), "mutation at byte %d", i)
	}

	// Toggling location between absent and present changes the digest.
	assert.NotEqual(t, base, Digest("U1", content, fixedCreatedAt, &Location{Latitude: 0, Longitude: 0}))

	// So does every other canonicalized field.
	assert.NotEqual(t, base, Digest("U2", content, fixedCreatedAt, nil))
	assert.NotEqual(t, base, Digest("U1", content, fixedCreatedAt.Add(time.Millisecond), nil))
}

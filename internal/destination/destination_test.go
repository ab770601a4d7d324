package destination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := []struct {
		target string
		want   Parsed
	}{
		{
			target: "rsync://alice@host.example:873/data",
			want: Parsed{
				Remote:     true,
				Shortname:  "host.example",
				Normalized: "rsync://alice@host.example:873/data/",
			},
		},
		{
			target: "bob@h2::backup",
			want:   Parsed{Remote: true, Shortname: "h2", Normalized: "bob@h2::backup/"},
		},
		{
			target: "server:/var/lib",
			want:   Parsed{Remote: true, Shortname: "server", Normalized: "server:/var/lib/"},
		},
		{
			target: "/srv/mirror",
			want:   Parsed{Remote: false, Shortname: "mirror", Normalized: "/srv/mirror/"},
		},
		{
			target: "/srv/mirror/",
			want:   Parsed{Remote: false, Shortname: "mirror", Normalized: "/srv/mirror/"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.target))
		})
	}
}

func TestParseRoundTripIsIdempotent(t *testing.T) {
	for _, target := range []string{
		"rsync://host/data",
		"h2::backup",
		"server:/var/lib",
		"/srv/mirror",
	} {
		first := Parse(target)
		second := Parse(first.Normalized)
		assert.Equal(t, first.Remote, second.Remote)
		assert.Equal(t, first.Shortname, second.Shortname)
		assert.Equal(t, first.Normalized, second.Normalized)
	}
}

func TestParsePanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { Parse("") })
}

package types

import (
	"testing"
)

func TestIDEquality(t *testing.T) {
	for _, kind := range []Kind{KindPerson, KindMovie, KindSeries} {
		a := NewID(kind, 0)
		if a != NewID(kind, 0) {
			t.Errorf("ID %v should equal itself", a)
		}
		if a == NewID(kind, 1) {
			t.Errorf("ID %v should differ from %v", a, NewID(kind, 1))
		}
		for _, other := range []Kind{KindPerson, KindMovie, KindSeries} {
			if other == kind {
				continue
			}
			if NewID(kind, 0) == NewID(other, 0) {
				t.Errorf("IDs of kinds %v and %v should differ", kind, other)
			}
		}
	}
}

func TestIDAsMapKey(t *testing.T) {
	seen := map[ID]int{}
	seen[NewID(KindPerson, 7)] = 1
	seen[NewID(KindMovie, 7)] = 2
	seen[NewID(KindPerson, 7)] = 3

	if len(seen) != 2 {
		t.Fatalf("expected 2 distinct keys, got %d", len(seen))
	}
	if seen[NewID(KindPerson, 7)] != 3 {
		t.Errorf("expected overwrite for equal key")
	}
}

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "movie", want: KindMovie},
		{in: "Movie", want: KindMovie},
		{in: "tv", want: KindSeries},
		{in: "TV", want: KindSeries},
		{in: "person", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMediaType(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMediaType(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMediaType(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMediaType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseEpisodeRef(t *testing.T) {
	tests := []struct {
		in      string
		want    EpisodeRef
		wantErr bool
	}{
		{in: "s1e2", want: EpisodeRef{Season: 1, Episode: 2}},
		{in: "S03E11", want: EpisodeRef{Season: 3, Episode: 11}},
		{in: "4x9", want: EpisodeRef{Season: 4, Episode: 9}},
		{in: " 2x10 ", want: EpisodeRef{Season: 2, Episode: 10}},
		{in: "s0e1", wantErr: true},
		{in: "1x0", wantErr: true},
		{in: "sxe", wantErr: true},
		{in: "episode 4", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEpisodeRef(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseEpisodeRef(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEpisodeRef(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseEpisodeRef(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIMDbURL(t *testing.T) {
	withID := &Metadata{Info: Info{"imdb_id": "nm0000123"}}
	if got := withID.IMDbURL(KindPerson); got != "https://www.imdb.com/name/nm0000123/" {
		t.Errorf("person IMDb URL = %q", got)
	}
	if got := withID.IMDbURL(KindMovie); got != "https://www.imdb.com/title/nm0000123/" {
		t.Errorf("movie IMDb URL = %q", got)
	}

	noID := &Metadata{Info: Info{"title": "Some Film"}}
	if got := noID.IMDbURL(KindMovie); got != "https://www.imdb.com/find/?q=Some+Film" {
		t.Errorf("fallback IMDb URL = %q", got)
	}

	empty := &Metadata{Info: Info{}}
	if got := empty.IMDbURL(KindMovie); got != "" {
		t.Errorf("expected empty URL, got %q", got)
	}
}

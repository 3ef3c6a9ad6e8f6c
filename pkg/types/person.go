package types

import "context"

// Person is a node holding a person's info and combined acting credits.
type Person struct {
	base
}

func (p *Person) Name() string {
	return p.infoStr("name")
}

// Birthday returns the person's birth date, or "".
func (p *Person) Birthday() string {
	return p.infoStr("birthday")
}

// Deathday returns the person's death date, or "" while alive or unknown.
func (p *Person) Deathday() string {
	return p.infoStr("deathday")
}

// Credits returns the person's acting credits. Requires resolved metadata.
func (p *Person) Credits() []CreditEntry {
	if p.meta == nil {
		return nil
	}
	return p.meta.Credits
}

// Related yields the credit identity of every acting credit. Credits with a
// media type outside movie/tv are dropped here; kind filtering beyond that
// is the exploration engine's business.
func (p *Person) Related(ctx context.Context) ([]ID, error) {
	if err := p.Ensure(ctx); err != nil {
		return nil, err
	}
	related := make([]ID, 0, len(p.meta.Credits))
	for _, credit := range p.meta.Credits {
		kind, err := ParseMediaType(credit.MediaType)
		if err != nil {
			continue
		}
		related = append(related, NewID(kind, credit.ID))
	}
	return related, nil
}

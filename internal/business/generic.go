package business

// genericProfile is the fallback for domains without dedicated facts.
// It never answers directly, so every utterance reaches the knowledge
// base.
type genericProfile struct {
	domain string
}

func (p *genericProfile) Domain() string { return p.domain }

func (p *genericProfile) Answer(string) (string, bool) { return "", false }

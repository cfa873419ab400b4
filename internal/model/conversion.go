package model

// Transfer is a unimolecular conversion: one particle of From becomes one
// particle of To.
type Transfer struct {
	From int
	To   int
}

// conversionNetwork implements Apply for networks whose reactions are all
// single-particle conversions. Each reaction index maps to one Transfer.
type conversionNetwork struct {
	name      string
	species   []string
	transfers []Transfer
}

func (n *conversionNetwork) Name() string { return n.name }

func (n *conversionNetwork) Species() []string {
	out := make([]string, len(n.species))
	copy(out, n.species)
	return out
}

func (n *conversionNetwork) ReactionCount() int { return len(n.transfers) }

// Apply moves one particle along the reaction's transfer.
func (n *conversionNetwork) Apply(counts []uint64, reaction int) error {
	if reaction < 0 || reaction >= len(n.transfers) {
		return &StoichiometryError{
			Model:    n.name,
			Reaction: reaction,
			Message:  "reaction index out of range",
		}
	}
	tr := n.transfers[reaction]
	if counts[tr.From] == 0 {
		return &StoichiometryError{
			Model:    n.name,
			Reaction: reaction,
			Species:  n.species[tr.From],
			Message:  "count would become negative",
		}
	}
	counts[tr.From]--
	counts[tr.To]++
	return nil
}

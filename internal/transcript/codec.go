package transcript

// Packed is the on-chain layout of a turn sequence: three 9-byte arrays.
//
//	Moves[i]           = cell<<4 | cardIndex
//	WarningMarks[i]    = marked cell, or None
//	EarthBoostEdges[i] = None (the on-chain subset has no earth boost)
type Packed struct {
	Moves           []byte `json:"moves"`
	WarningMarks    []byte `json:"warningMarks"`
	EarthBoostEdges []byte `json:"earthBoostEdges"`
}

// EncodeTurns packs exactly TurnCount turns into the on-chain layout. A turn that
// carries an earth boost is rejected with a protocol violation.
func EncodeTurns(turns []Turn) (Packed, error) {
	if len(turns) != TurnCount {
		return Packed{}, Malformedf(HeaderTurn, "turns", "want exactly %d turns, got %d", TurnCount, len(turns))
	}
	for i, turn := range turns {
		if err := validateRanges(i, turn); err != nil {
			return Packed{}, err
		}
		if turn.HasEarthBoost() {
			return Packed{}, Violationf(i, "earth boost edge %d cannot be encoded on-chain", turn.EarthBoostEdge)
		}
	}
	moves, marks, earth := pack(turns)
	return Packed{Moves: moves[:], WarningMarks: marks[:], EarthBoostEdges: earth[:]}, nil
}

// DecodeTurns inverts EncodeTurns, re-validating array lengths and every field.
func DecodeTurns(p Packed) ([]Turn, error) {
	arrays := []struct {
		field string
		data  []byte
	}{
		{"moves", p.Moves},
		{"warningMarks", p.WarningMarks},
		{"earthBoostEdges", p.EarthBoostEdges},
	}
	for _, a := range arrays {
		if len(a.data) != TurnCount {
			return nil, Malformedf(HeaderTurn, a.field, "want %d bytes, got %d", TurnCount, len(a.data))
		}
	}

	turns := make([]Turn, TurnCount)
	for i := range turns {
		turn := Turn{
			Cell:            p.Moves[i] >> 4,
			CardIndex:       p.Moves[i] & 0x0f,
			WarningMarkCell: p.WarningMarks[i],
			EarthBoostEdge:  p.EarthBoostEdges[i],
		}
		if err := validateRanges(i, turn); err != nil {
			return nil, err
		}
		if turn.HasEarthBoost() {
			return nil, Violationf(i, "earth boost edge %d is not allowed on-chain", turn.EarthBoostEdge)
		}
		turns[i] = turn
	}
	return turns, nil
}

func pack(turns []Turn) (moves, marks, earth [TurnCount]byte) {
	for i, turn := range turns {
		if i >= TurnCount {
			break
		}
		moves[i] = turn.Cell<<4 | turn.CardIndex&0x0f
		marks[i] = turn.WarningMarkCell
		earth[i] = turn.EarthBoostEdge
	}
	return moves, marks, earth
}

package vision

// SelectCandidate applies the mode's selection policy to contours in detection order.
// Ties always resolve to the first candidate encountered.
func SelectCandidate(cands []Candidate, width, height int, mode Mode, params Params) BoundingBox {
	switch mode {
	case ModeFiltered:
		return selectFiltered(cands, width, height, params)
	default:
		return selectLargest(cands, width, height)
	}
}

func selectLargest(cands []Candidate, width, height int) BoundingBox {
	if len(cands) == 0 {
		return frameBox(width, height)
	}

	best := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].ContourArea > cands[best].ContourArea {
			best = i
		}
	}
	return boxFromRect(cands[best].Rect)
}

func selectFiltered(cands []Candidate, width, height int, params Params) BoundingBox {
	minArea := params.MinAreaFraction * float64(width*height)

	found := false
	bestScore := -1.0
	var best BoundingBox

	for _, c := range cands {
		w, h := c.Rect.Dx(), c.Rect.Dy()
		area := float64(w * h)
		if area < minArea {
			continue
		}

		ratio := aspect(w, h)
		if ratio < params.MinAspect {
			continue
		}

		if score := area * ratio; score > bestScore {
			bestScore = score
			best = boxFromRect(c.Rect)
			found = true
		}
	}

	if !found {
		return frameBox(width, height)
	}
	return best
}

package model

// The API returns only the single mutated answer; these helpers rebuild a question's
// answer list around it. All of them return a fresh slice and never modify the input.

// AcceptAnswer marks id as accepted and clears the flag on every other answer.
func AcceptAnswer(answers []Answer, id ID) []Answer {
	out := make([]Answer, len(answers))
	for i, a := range answers {
		a.IsAccepted = a.ID == id
		out[i] = a
	}
	return out
}

// ReplaceAnswer swaps in updated where the ids match.
func ReplaceAnswer(answers []Answer, updated Answer) []Answer {
	out := make([]Answer, len(answers))
	for i, a := range answers {
		if a.ID == updated.ID {
			a = updated
		}
		out[i] = a
	}
	return out
}

// RemoveAnswer drops the answer with the given id.
func RemoveAnswer(answers []Answer, id ID) []Answer {
	out := make([]Answer, 0, len(answers))
	for _, a := range answers {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// AcceptedCount returns how many answers carry the accepted flag.
func AcceptedCount(answers []Answer) int {
	n := 0
	for _, a := range answers {
		if a.IsAccepted {
			n++
		}
	}
	return n
}

package spotter

// Token is the decoding cell attached to one transducer state for one
// frame: the best-scoring partial path currently occupying that state,
// plus the statistics the legality gate and confidence are computed from.
type Token struct {
	Active   bool
	IsFiller bool
	Score    float64 // cumulative log-score of the best path reaching this state

	NumKeywordFrames    int     // frames on non-filler arcs along the winning path
	AverageKeywordScore float64 // running mean of frame log-scores over those frames

	Keyword                 int32 // last non-zero olabel on the path, 0 = none
	NumFramesOfCurrentState int   // consecutive self-loop frames at this state (non-filler only)

	NumKeywordStates             int     // distinct non-filler states visited
	MaxScoreOfCurrentState       float64 // peak frame log-score while dwelling at this state
	AverageMaxKeywordScore       float64 // running mean of per-state peaks
	AverageMaxKeywordScoreBefore float64 // snapshot of that mean when this state was entered
}

func (t *Token) reset() {
	*t = Token{IsFiller: true}
}

// update applies one arc traversal from prev into t. The score competition
// uses strict inequality, so when two arcs reach the same state with equal
// scores in one frame the first update wins. Active and IsFiller record the
// most recent attempted update even when it loses the competition.
func (t *Token) update(prev *Token, olabel int32, isSelfArc, isFiller bool, frameLogScore float64) {
	if !t.Active || t.Score < prev.Score+frameLogScore {
		t.Score = prev.Score + frameLogScore
		if !isFiller {
			n := prev.NumKeywordFrames
			t.AverageKeywordScore = (frameLogScore + prev.AverageKeywordScore*float64(n)) / float64(n+1)
			t.NumKeywordFrames = n + 1
			if isSelfArc {
				if prev.NumKeywordStates <= 0 {
					panic("spotter: keyword self-loop with no keyword state on path (malformed transducer)")
				}
				t.NumFramesOfCurrentState = prev.NumFramesOfCurrentState + 1
				t.NumKeywordStates = prev.NumKeywordStates
				t.MaxScoreOfCurrentState = max(prev.MaxScoreOfCurrentState, frameLogScore)
				t.AverageMaxKeywordScoreBefore = prev.AverageMaxKeywordScoreBefore
			} else {
				t.NumFramesOfCurrentState = 1
				t.NumKeywordStates = prev.NumKeywordStates + 1
				t.MaxScoreOfCurrentState = frameLogScore
				t.AverageMaxKeywordScoreBefore = prev.AverageMaxKeywordScore
			}
			t.AverageMaxKeywordScore = (t.MaxScoreOfCurrentState +
				t.AverageMaxKeywordScoreBefore*float64(t.NumKeywordStates-1)) /
				float64(t.NumKeywordStates)
			t.Keyword = prev.Keyword
			if olabel != 0 {
				t.Keyword = olabel
			}
		}
	}
	t.Active = true
	t.IsFiller = isFiller
}

package rank

import "math"

// BM25 is Okapi BM25 (spec §4.6), combining inverse document frequency,
// term-frequency saturation, and document-length normalization.
type BM25 struct {
	K1 float64
	B  float64
	K3 float64
}

// NewBM25 returns BM25 with the spec-mandated defaults (k1=1.2, b=0.75,
// k3=500).
func NewBM25() BM25 {
	return BM25{K1: 1.2, B: 0.75, K3: 500}
}

func (r BM25) ScoreOne(sd ScoreData) float64 {
	idf := math.Log((float64(sd.NumDocs) - float64(sd.DocCount) + 0.5) / (float64(sd.DocCount) + 0.5))
	tf := float64(sd.TermFreqInDoc)
	dl := float64(sd.DocLength)
	tfNorm := ((r.K1 + 1) * tf) / (r.K1*((1-r.B)+r.B*dl/sd.AvgDocLength) + tf)
	qtf := sd.QueryTermWeight
	qtfNorm := ((r.K3 + 1) * qtf) / (r.K3 + qtf)
	return idf * tfNorm * qtfNorm
}

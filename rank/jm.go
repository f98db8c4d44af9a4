package rank

import "math"

// JelinekMercer linearly interpolates a document's maximum-likelihood
// term probability with the corpus (background) probability (spec
// §4.6's "additional LM smoother with standard formula"):
// `p(t|d) = (1-λ)·tf/dl + λ·ctf/|C|`.
type JelinekMercer struct {
	Lambda float64
}

// NewJelinekMercer returns JelinekMercer with λ=0.7, a conventional
// default for this smoother.
func NewJelinekMercer() JelinekMercer { return JelinekMercer{Lambda: 0.7} }

func (r JelinekMercer) ScoreOne(sd ScoreData) float64 {
	pSeen := float64(sd.TermFreqInDoc) / float64(sd.DocLength)
	pColl := float64(sd.CorpusTermCount) / float64(sd.TotalCorpusTerms)
	p := (1-r.Lambda)*pSeen + r.Lambda*pColl
	return sd.QueryTermWeight * math.Log(p)
}

// AbsoluteDiscount subtracts a fixed discount δ from every observed
// count and redistributes the reclaimed mass proportionally to the
// corpus background probability, weighted by the document's unique-term
// count (spec §4.6): `p(t|d) = max(tf-δ,0)/dl + δ·|unique terms in d|/dl · p(t|C)`.
type AbsoluteDiscount struct {
	Delta float64
}

// NewAbsoluteDiscount returns AbsoluteDiscount with δ=0.7, a
// conventional default for this smoother.
func NewAbsoluteDiscount() AbsoluteDiscount { return AbsoluteDiscount{Delta: 0.7} }

func (r AbsoluteDiscount) ScoreOne(sd ScoreData) float64 {
	dl := float64(sd.DocLength)
	discounted := math.Max(float64(sd.TermFreqInDoc)-r.Delta, 0) / dl
	pColl := float64(sd.CorpusTermCount) / float64(sd.TotalCorpusTerms)
	mass := r.Delta * float64(sd.UniqueTermsInDoc) / dl
	p := discounted + mass*pColl
	return sd.QueryTermWeight * math.Log(p)
}

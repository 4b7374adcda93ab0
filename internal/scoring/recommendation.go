package scoring

// Recommend applies the ordered threshold rules; the first match wins.
func Recommend(overall, confidence, qualification float64, t Thresholds) Recommendation {
	switch {
	case overall >= t.ApplyOverall && confidence >= t.ApplyConfidence:
		return Apply
	case overall >= t.QualifiedOverall && qualification >= t.QualifiedScore:
		return Apply
	case overall >= t.MaybeOverall && confidence >= t.MaybeConfidence:
		return Maybe
	default:
		return Skip
	}
}

package domain

// Counts holds the four cells of a binary confusion at one cutoff.
type Counts struct {
	TP int
	FP int
	TN int
	FN int
}

func (c Counts) Total() int {
	return c.TP + c.FP + c.TN + c.FN
}

func (c Counts) Accuracy() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.TP+c.TN) / float64(total)
}

// Precision reports false when TP+FP is zero and the metric is undefined.
func (c Counts) Precision() (float64, bool) {
	if c.TP+c.FP == 0 {
		return 0, false
	}
	return float64(c.TP) / float64(c.TP+c.FP), true
}

// Recall reports false when TP+FN is zero and the metric is undefined.
func (c Counts) Recall() (float64, bool) {
	if c.TP+c.FN == 0 {
		return 0, false
	}
	return float64(c.TP) / float64(c.TP+c.FN), true
}

func (c Counts) TruePositiveRate() (float64, bool) {
	return c.Recall()
}

func (c Counts) FalsePositiveRate() (float64, bool) {
	if c.FP+c.TN == 0 {
		return 0, false
	}
	return float64(c.FP) / float64(c.FP+c.TN), true
}

func (c Counts) Specificity() (float64, bool) {
	if c.TN+c.FP == 0 {
		return 0, false
	}
	return float64(c.TN) / float64(c.TN+c.FP), true
}

func FScore(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * (precision * recall) / (precision + recall)
}

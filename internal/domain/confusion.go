package domain

// ConfusionMatrix is a fixed-size square tally over a caller-supplied class
// ordering. Cell [p][a] counts rows predicted as Classes[p] whose true label
// is Classes[a]. Built once from a complete table, never mutated afterwards;
// derived metrics read its margins on demand.
type ConfusionMatrix struct {
	Classes []string `json:"classes"`
	Cells   [][]int  `json:"cells"`
}

func NewConfusionMatrix(classes []string) *ConfusionMatrix {
	cells := make([][]int, len(classes))
	for i := range cells {
		cells[i] = make([]int, len(classes))
	}
	return &ConfusionMatrix{Classes: classes, Cells: cells}
}

func (m *ConfusionMatrix) index(class string) int {
	for i, c := range m.Classes {
		if c == class {
			return i
		}
	}
	return -1
}

func (m *ConfusionMatrix) Add(predicted, actual string) error {
	p := m.index(predicted)
	if p < 0 {
		return &SchemaError{Column: "label", Reason: "unknown predicted class " + predicted}
	}
	a := m.index(actual)
	if a < 0 {
		return &SchemaError{Column: "label", Reason: "unknown label " + actual}
	}
	m.Cells[p][a]++
	return nil
}

func (m *ConfusionMatrix) At(predicted, actual string) int {
	p, a := m.index(predicted), m.index(actual)
	if p < 0 || a < 0 {
		return 0
	}
	return m.Cells[p][a]
}

// RowSum is the number of rows predicted as class i.
func (m *ConfusionMatrix) RowSum(i int) int {
	var sum int
	for _, v := range m.Cells[i] {
		sum += v
	}
	return sum
}

// ColSum is the number of rows whose true label is class i.
func (m *ConfusionMatrix) ColSum(i int) int {
	var sum int
	for p := range m.Cells {
		sum += m.Cells[p][i]
	}
	return sum
}

func (m *ConfusionMatrix) Total() int {
	var sum int
	for i := range m.Cells {
		sum += m.RowSum(i)
	}
	return sum
}

func (m *ConfusionMatrix) Trace() int {
	var sum int
	for i := range m.Cells {
		sum += m.Cells[i][i]
	}
	return sum
}

// ClassCounts collapses the matrix to binary counts for one class.
func (m *ConfusionMatrix) ClassCounts(i int) Counts {
	tp := m.Cells[i][i]
	fp := m.RowSum(i) - tp
	fn := m.ColSum(i) - tp
	tn := m.Total() - tp - fp - fn
	return Counts{TP: tp, FP: fp, TN: tn, FN: fn}
}

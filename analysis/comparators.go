package analysis

import (
	"path"
	"strconv"

	"github.com/zeu5/smartcab-rl/core"
	"github.com/zeu5/smartcab-rl/util"
)

// NoOpComparator discards datasets, for analyzers that only write files.
type NoOpComparator struct{}

var _ core.Comparator = &NoOpComparator{}

func (n *NoOpComparator) Compare(_ []string, _ []core.DataSet) {}

type NoOpComparatorConstructor struct{}

var _ core.ComparatorConstructor = &NoOpComparatorConstructor{}

func NewNoOpComparatorConstructor() *NoOpComparatorConstructor {
	return &NoOpComparatorConstructor{}
}

func (n *NoOpComparatorConstructor) NewComparator(_ int) core.Comparator {
	return &NoOpComparator{}
}

// JSONComparator saves the datasets of all experiments keyed by experiment name.
type JSONComparator struct {
	savePath string
}

var _ core.Comparator = &JSONComparator{}

func NewJSONComparator(savePath string) *JSONComparator {
	return &JSONComparator{savePath: savePath}
}

func (j *JSONComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	out := make(map[string]core.DataSet, len(experimentNames))
	for i, name := range experimentNames {
		out[name] = datasets[i]
	}
	util.SaveJson(j.savePath, out)
}

type JSONComparatorConstructor struct {
	savePath string
	fileName string
}

var _ core.ComparatorConstructor = &JSONComparatorConstructor{}

// NewJSONComparatorConstructor saves to <savePath>/<run>/<fileName>.
func NewJSONComparatorConstructor(savePath, fileName string) *JSONComparatorConstructor {
	return &JSONComparatorConstructor{
		savePath: savePath,
		fileName: fileName,
	}
}

func (j *JSONComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewJSONComparator(path.Join(j.savePath, strconv.Itoa(run), j.fileName))
}

package pipeline

import "Backend-Plotter/internal/app/ds"

// Run выполняет фильтрацию, сглаживание и построение графика и таблицы.
// График и таблица строятся по одной и той же отфильтрованной сглаженной таблице.
func Run(t *ds.Table, p ds.Params, filename string) (*ds.Result, error) {
	r := p.Range()

	filtered := Filter(t, r)
	smoothed, err := Smooth(filtered, p.WindowSize)
	if err != nil {
		return nil, err
	}

	chart, table := Project(smoothed, ProjectionMeta{Range: r, Filename: filename})
	return &ds.Result{Chart: chart, Table: table}, nil
}

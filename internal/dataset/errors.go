package dataset

import "fmt"

// DataLoadError возвращается, когда файл датасета недоступен, повреждён
// или в нём нет обязательных колонок.
type DataLoadError struct {
	Path   string
	Line   int    // 0, если ошибка не относится к конкретной строке
	Column string // пусто, если ошибка не относится к конкретной колонке
	Err    error
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("load dataset %s: line %d, column %q: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("load dataset %s: line %d: %v", e.Path, e.Line, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load dataset %s: column %q: %v", e.Path, e.Column, e.Err)
	default:
		return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
	}
}

// Unwrap возвращает исходную ошибку для errors.Is/errors.As.
func (e *DataLoadError) Unwrap() error {
	return e.Err
}

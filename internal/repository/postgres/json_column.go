package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// maxUnwrapDepth ограничивает число попыток разворачивания дважды
// закодированных JSON-строк при чтении.
const maxUnwrapDepth = 3

// jsonArray — тип JSON-колонки для массивоподобных полей (метаданные
// упражнений, подходы, элементы пресета).
//
// Запись всегда каноническая: один проход json.Marshal, пустой срез
// сохраняется как "[]". Чтение — защитное: legacy-данные могли быть
// закодированы дважды ("\"[\\\"a\\\"]\""), поэтому строковые значения
// разворачиваются до настоящего массива, но не глубже maxUnwrapDepth.
type jsonArray[T any] []T

// Value реализует driver.Valuer.
func (a jsonArray[T]) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(a))
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации JSON-колонки: %w", err)
	}
	return string(b), nil
}

// Scan реализует sql.Scanner.
func (a *jsonArray[T]) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("неподдерживаемый тип JSON-колонки: %T", src)
	}

	out, err := decodeJSONArray[T](raw)
	if err != nil {
		return err
	}
	*a = out
	return nil
}

// decodeJSONArray разбирает значение колонки в срез, разворачивая
// дважды закодированные строки.
func decodeJSONArray[T any](raw []byte) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	for depth := 0; depth <= maxUnwrapDepth; depth++ {
		var out []T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}

		// Значение может быть JSON-строкой, внутри которой лежит массив.
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("ошибка разбора JSON-колонки: %w", err)
		}
		raw = []byte(inner)
	}

	return nil, fmt.Errorf("JSON-колонка закодирована глубже %d уровней", maxUnwrapDepth)
}

package postgres

import (
	"testing"

	"github.com/stretchr/testify/require"

	domain "sparkyfitness-server/internal/domain/exercise"
)

func TestJSONArray_Value_NilBecomesEmptyArray(t *testing.T) {
	var a jsonArray[string]

	v, err := a.Value()
	require.NoError(t, err)
	require.Equal(t, "[]", v)
}

func TestJSONArray_Value_Canonical(t *testing.T) {
	a := jsonArray[string]{"barbell", "bench"}

	v, err := a.Value()
	require.NoError(t, err)
	require.Equal(t, `["barbell","bench"]`, v)
}

func TestJSONArray_Scan_PlainArray(t *testing.T) {
	var a jsonArray[string]

	err := a.Scan([]byte(`["chest","triceps"]`))
	require.NoError(t, err)
	require.Equal(t, jsonArray[string]{"chest", "triceps"}, a)
}

func TestJSONArray_Scan_DoubleEncodedLegacyValue(t *testing.T) {
	var a jsonArray[string]

	// Legacy-строки: массив, сериализованный повторно как JSON-строка
	err := a.Scan([]byte(`"[\"chest\",\"triceps\"]"`))
	require.NoError(t, err)
	require.Equal(t, jsonArray[string]{"chest", "triceps"}, a)
}

func TestJSONArray_Scan_TripleEncodedStillDecodes(t *testing.T) {
	var a jsonArray[string]

	err := a.Scan([]byte(`"\"[\\\"a\\\"]\""`))
	require.NoError(t, err)
	require.Equal(t, jsonArray[string]{"a"}, a)
}

func TestJSONArray_Scan_GarbageRejected(t *testing.T) {
	var a jsonArray[string]

	err := a.Scan([]byte(`{"not":"an array"}`))
	require.Error(t, err)
}

func TestJSONArray_Scan_NilAndEmpty(t *testing.T) {
	a := jsonArray[string]{"stale"}
	require.NoError(t, a.Scan(nil))
	require.Nil(t, []string(a))

	require.NoError(t, a.Scan([]byte("")))
	require.Nil(t, []string(a))
}

func TestJSONArray_Scan_StructElements(t *testing.T) {
	var a jsonArray[domain.Set]

	err := a.Scan(`[{"reps":5,"weight":100.5},{"reps":3,"weight":110}]`)
	require.NoError(t, err)
	require.Len(t, a, 2)
	require.Equal(t, 5, a[0].Reps)
	require.InDelta(t, 100.5, a[0].Weight, 1e-9)
}

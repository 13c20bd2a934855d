package data

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testReferenceCSV = `Unnamed: 0,0,1,2,3,4,label
0,34.05,-118.25,3,15,9,1
1,51.5,-0.12,3,16,30,0
2,-33.9,18.4,7,2,45,1
`

func TestImportReference(t *testing.T) {
	db := setupTestDB(t)

	n, err := ImportReference(db, strings.NewReader(testReferenceCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := CountReference(db)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestImportReference_NoIndexColumn(t *testing.T) {
	db := setupTestDB(t)

	csv := "0,1,2,3,4,label\n34.05,-118.25,3,15,9,1\n"
	n, err := ImportReference(db, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestImportReference_Replaces(t *testing.T) {
	db := setupTestDB(t)

	_, err := ImportReference(db, strings.NewReader(testReferenceCSV))
	require.NoError(t, err)

	csv := "0,1,2,3,4,label\n1,2,3,4,5,0\n"
	n, err := ImportReference(db, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err := CountReference(db)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestImportReference_ColumnMismatch(t *testing.T) {
	db := setupTestDB(t)

	csv := "0,1,2,label\n1,2,3,0\n"
	_, err := ImportReference(db, strings.NewReader(csv))
	assert.Error(t, err)
}

func TestImportReference_NonNumeric(t *testing.T) {
	db := setupTestDB(t)

	csv := "0,1,2,3,4,label\nnorth,-118.25,3,15,9,1\n"
	_, err := ImportReference(db, strings.NewReader(csv))
	assert.Error(t, err)
}

func TestImportReference_NilDB(t *testing.T) {
	_, err := ImportReference(nil, strings.NewReader(testReferenceCSV))
	assert.Error(t, err)
}

func TestReferenceRows(t *testing.T) {
	db := setupTestDB(t)

	_, err := ImportReference(db, strings.NewReader(testReferenceCSV))
	require.NoError(t, err)

	rows, err := ReferenceRows(db)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []float64{34.05, -118.25, 3, 15, 9}, rows[0])
	assert.Equal(t, []float64{-33.9, 18.4, 7, 2, 45}, rows[2])
}

func TestReferenceRows_Empty(t *testing.T) {
	db := setupTestDB(t)

	rows, err := ReferenceRows(db)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

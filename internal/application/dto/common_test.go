package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-taller/internal/application/dto"
)

func TestParseDate(t *testing.T) {
	d, err := dto.ParseDate("2026-03-15")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), *d)

	d, err = dto.ParseDate("2026-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	d, err = dto.ParseDate("  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = dto.ParseDate("15/03/2026")
	assert.Error(t, err)
}

func TestPageRequest_DefaultPage(t *testing.T) {
	p := dto.PageRequest{}
	p.DefaultPage()
	assert.Equal(t, 20, p.Limit)

	p = dto.PageRequest{Limit: 500, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

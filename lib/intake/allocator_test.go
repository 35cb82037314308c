package intake

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_NextSequence(t *testing.T) {
	//Arrange
	counter := &MockCounter{Count: 41}
	allocator := NewAllocator(counter, testLogger())

	//Act
	code, err := allocator.Allocate(context.Background(), "20250615")

	//Assert
	require.NoError(t, err)
	assert.Equal(t, "QH-20250615-0042", code)
	assert.Equal(t, []string{"QH-20250615-"}, counter.Prefixes)
}

func TestAllocate_FirstOfTheDay(t *testing.T) {
	allocator := NewAllocator(&MockCounter{}, testLogger())

	code, err := allocator.Allocate(context.Background(), "20250101")

	require.NoError(t, err)
	assert.Equal(t, "QH-20250101-0001", code)
}

func TestAllocate_FallbackOnCountFailure(t *testing.T) {
	//Arrange
	countErr := errors.New("permission denied for table avaliacoes_imoveis")
	allocator := NewAllocator(&MockCounter{Err: countErr}, testLogger())
	allocator.RandomDigits = func(n int) string {
		assert.Equal(t, 4, n)
		return "7315"
	}

	//Act
	code, err := allocator.Allocate(context.Background(), "20250615")

	//Assert
	assert.Equal(t, "QH-20250615-7315", code)
	var allocationErr *AllocationError
	require.True(t, errors.As(err, &allocationErr))
	assert.Equal(t, "QH-20250615-", allocationErr.Prefix)
	assert.ErrorIs(t, err, countErr)
}

func TestAllocate_FallbackUsesRandomDigits(t *testing.T) {
	allocator := NewAllocator(&MockCounter{Err: errors.New("down")}, testLogger())

	code, err := allocator.Allocate(context.Background(), "20250615")

	assert.Error(t, err)
	assert.Regexp(t, `^QH-20250615-\d{4}$`, code)
}

package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"license-plate-service/internal/core/domain"
)

func TestIoU_IdenticalBoxes(t *testing.T) {
	b := domain.Box{X: 10, Y: 20, Width: 100, Height: 40}
	score, err := IoU(b, b)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestIoU_DisjointBoxes(t *testing.T) {
	a := domain.Box{X: 0, Y: 0, Width: 10, Height: 10}
	b := domain.Box{X: 50, Y: 50, Width: 10, Height: 10}
	score, err := IoU(a, b)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestIoU_TouchingBoxesDoNotOverlap(t *testing.T) {
	a := domain.Box{X: 0, Y: 0, Width: 10, Height: 10}
	b := domain.Box{X: 10, Y: 0, Width: 10, Height: 10}
	score, err := IoU(a, b)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestIoU_Symmetric(t *testing.T) {
	a := domain.Box{X: 0, Y: 0, Width: 20, Height: 20}
	b := domain.Box{X: 10, Y: 10, Width: 20, Height: 20}

	ab, err := IoU(a, b)
	assert.NoError(t, err)
	ba, err := IoU(b, a)
	assert.NoError(t, err)
	assert.Equal(t, ab, ba)

	// 10x10 intersection over 400+400-100 union
	assert.InDelta(t, 100.0/700.0, ab, 1e-9)
}

func TestIoU_DegenerateBoxRejected(t *testing.T) {
	a := domain.Box{X: 0, Y: 0, Width: 0, Height: 10}
	b := domain.Box{X: 0, Y: 0, Width: 10, Height: 10}

	_, err := IoU(a, b)
	assert.ErrorIs(t, err, domain.ErrDegenerateBox)

	_, err = IoU(b, a)
	assert.ErrorIs(t, err, domain.ErrDegenerateBox)
}
